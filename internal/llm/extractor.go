package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/job-tailor/internal/prompts"
	"github.com/jonathan/job-tailor/internal/types"
)

// DefaultTruncationBudget is the default character budget for page text sent
// to the extraction prompt.
const DefaultTruncationBudget = 8000

// extractionTemperature keeps extraction output stable across runs.
const extractionTemperature float32 = 0.1

// ExtractJob asks the LLM to pull a structured job record out of raw visible
// page text. It is the last-resort extraction strategy: when the response
// contains no parseable JSON the call returns ok=false rather than an error,
// and the caller decides whether to fall back or surface a failure. Provider
// failures are returned verbatim.
func ExtractJob(ctx context.Context, client Client, pageText string, budget int) (*types.JobRecord, bool, error) {
	prompt := BuildExtractionPrompt(pageText, budget)

	temp := extractionTemperature
	result, err := client.Generate(ctx, prompt, Options{
		SystemPrompt: prompts.MustGet("extraction.json", "extract-job-system"),
		Temperature:  &temp,
		ForceJSON:    true,
	})
	if err != nil {
		return nil, false, fmt.Errorf("job extraction call failed: %w", err)
	}

	var parsed map[string]any
	if err := DecodeJSONObject(result.Content, &parsed); err != nil {
		return nil, false, nil
	}

	return normalizeExtraction(parsed), true, nil
}

// BuildExtractionPrompt builds the fixed-format extraction prompt with the
// page text truncated to the character budget. A budget <= 0 uses the
// default.
func BuildExtractionPrompt(pageText string, budget int) string {
	if budget <= 0 {
		budget = DefaultTruncationBudget
	}
	template := prompts.MustGet("extraction.json", "extract-job")
	return prompts.MustFormat(template, map[string]string{
		"PageText": TruncateAtBoundary(pageText, budget),
	})
}

// TruncateAtBoundary cuts text to at most budget characters, biasing the cut
// to the later of the last sentence end or last newline within the budget so
// truncation does not land mid-sentence. When neither boundary exists in the
// final stretch it falls back to a hard cut at the budget edge.
func TruncateAtBoundary(text string, budget int) string {
	if len(text) <= budget {
		return text
	}

	// Back off a byte-aligned cut to the nearest rune boundary.
	for budget > 0 && !utf8.RuneStart(text[budget]) {
		budget--
	}

	window := text[:budget]
	cut := strings.LastIndexByte(window, '\n')
	if idx := strings.LastIndexByte(window, '.'); idx > cut {
		cut = idx + 1 // keep the period
	}

	// A boundary too close to the start would discard most of the budget;
	// treat it as not found.
	if cut < budget/2 {
		cut = budget
	}

	return strings.TrimSpace(text[:cut])
}

// listSplitRe splits a scalar string that should have been an array: on
// commas, semicolons, bullet characters, or newlines.
var listSplitRe = regexp.MustCompile(`[,;\n•·▪‣*]+`)

// normalizeExtraction converts the tolerantly parsed JSON object into a
// JobRecord. Absent fields become "" or nil; non-string array elements are
// stringified and trimmed; a scalar where an array is expected is split on
// list separators.
func normalizeExtraction(parsed map[string]any) *types.JobRecord {
	record := &types.JobRecord{
		Title:              stringField(parsed, "title"),
		Company:            stringField(parsed, "company"),
		Description:        stringField(parsed, "description"),
		Location:           stringField(parsed, "location"),
		Requirements:       listField(parsed, "requirements"),
		Responsibilities:   listField(parsed, "responsibilities"),
		Skills:             listField(parsed, "skills"),
		ExperienceRequired: stringField(parsed, "experienceLevel"),
	}

	if et := listField(parsed, "employmentType"); len(et) > 0 {
		record.EmploymentType = et
	}
	record.Salary = salaryField(parsed, "salary")

	return record
}

// stringField returns the field as a trimmed string, stringifying non-string
// scalars and normalizing absent values to "".
func stringField(parsed map[string]any, key string) string {
	v, ok := parsed[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// listField returns the field as a string slice, tolerating a scalar string
// (split on list separators) and non-string elements (stringified).
func listField(parsed map[string]any, key string) []string {
	v, ok := parsed[key]
	if !ok || v == nil {
		return nil
	}

	var out []string
	appendItem := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				appendItem(s)
			} else if item != nil {
				appendItem(fmt.Sprintf("%v", item))
			}
		}
	case string:
		for _, part := range listSplitRe.Split(t, -1) {
			appendItem(strings.TrimPrefix(strings.TrimSpace(part), "- "))
		}
	default:
		appendItem(fmt.Sprintf("%v", t))
	}
	return out
}

// salaryField parses an optional salary object, ignoring scalar forms the
// model sometimes returns instead.
func salaryField(parsed map[string]any, key string) *types.Salary {
	node, ok := parsed[key].(map[string]any)
	if !ok {
		return nil
	}
	salary := &types.Salary{
		Currency: stringField(node, "currency"),
	}
	if min, ok := node["minValue"].(float64); ok {
		salary.MinValue = min
	}
	if max, ok := node["maxValue"].(float64); ok {
		salary.MaxValue = max
	}
	if salary.Currency == "" && salary.MinValue == 0 && salary.MaxValue == 0 {
		return nil
	}
	return salary
}
