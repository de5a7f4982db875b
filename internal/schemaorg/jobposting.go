// Package schemaorg extracts normalized job records from embedded JSON-LD
// structured data. Job sites embed schema.org JobPosting nodes for search
// indexing; this is the highest-confidence extraction source when present.
package schemaorg

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/job-tailor/internal/page"
	"github.com/jonathan/job-tailor/internal/types"
)

// Extract searches the page's JSON-LD script blocks for a JobPosting node and
// returns a normalized JobRecord. Returns nil when no JobPosting is present;
// absence is expected and is not an error. Malformed JSON in any individual
// block is skipped, not fatal.
func Extract(p *page.Page) *types.JobRecord {
	for _, block := range p.StructuredDataBlocks() {
		var doc any
		if err := json.Unmarshal([]byte(block), &doc); err != nil {
			continue
		}
		if node := findJobPosting(doc); node != nil {
			return normalize(node)
		}
	}
	return nil
}

// findJobPosting walks a decoded JSON-LD document depth-first, descending
// through plain arrays and @graph arrays, and returns the first node whose
// @type equals or includes "JobPosting".
func findJobPosting(doc any) map[string]any {
	switch v := doc.(type) {
	case []any:
		for _, item := range v {
			if node := findJobPosting(item); node != nil {
				return node
			}
		}
	case map[string]any:
		if isJobPosting(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			if node := findJobPosting(graph); node != nil {
				return node
			}
		}
	}
	return nil
}

// isJobPosting reports whether a @type value names JobPosting, tolerating
// both a single string and an array of type names.
func isJobPosting(typeValue any) bool {
	switch t := typeValue.(type) {
	case string:
		return t == "JobPosting"
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}

// normalize converts a JobPosting node into a JobRecord.
func normalize(node map[string]any) *types.JobRecord {
	record := &types.JobRecord{
		Title:       textValue(node["title"]),
		Company:     companyName(node["hiringOrganization"]),
		Description: page.StripHTML(textValue(node["description"])),
		Location:    locationText(node["jobLocation"]),
	}

	record.EmploymentType = stringList(node["employmentType"])
	record.Salary = salaryRange(node["baseSalary"])
	record.ExperienceRequired = experienceText(node["experienceRequirements"])
	record.EducationRequired = educationText(node["educationRequirements"])

	if loc := textValue(node["jobLocationType"]); strings.EqualFold(loc, "TELECOMMUTE") {
		record.Remote = true
	}

	if skills := stringList(node["skills"]); len(skills) > 0 {
		record.Skills = skills
	}

	return record
}

// textValue extracts a string from the shape-tolerant accessor forms seen in
// the wild: a plain string, {"@value": ...}, {"value": ...}, or {"name": ...}.
func textValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		for _, key := range []string{"@value", "value", "name"} {
			if s, ok := t[key].(string); ok {
				return strings.TrimSpace(s)
			}
		}
	case float64:
		return formatNumber(t)
	}
	return ""
}

// companyName resolves hiringOrganization.name, falling back to legalName.
func companyName(v any) string {
	org, ok := v.(map[string]any)
	if !ok {
		return textValue(v)
	}
	if name := textValue(org["name"]); name != "" {
		return name
	}
	return textValue(org["legalName"])
}

// locationText resolves a jobLocation node (or array of nodes) into a
// human-readable string. Each address joins locality, region, and country
// with ", "; multiple locations join with " | ".
func locationText(v any) string {
	switch t := v.(type) {
	case []any:
		var parts []string
		for _, item := range t {
			if s := locationText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " | ")
	case map[string]any:
		address, ok := t["address"].(map[string]any)
		if !ok {
			return textValue(t["name"])
		}
		var parts []string
		for _, key := range []string{"addressLocality", "addressRegion", "addressCountry"} {
			if s := textValue(address[key]); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// salaryRange resolves baseSalary, tolerating both a flat numeric value and a
// nested min/max QuantitativeValue range.
func salaryRange(v any) *types.Salary {
	node, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	salary := &types.Salary{Currency: textValue(node["currency"])}

	value := node["value"]
	switch t := value.(type) {
	case float64:
		salary.MinValue = t
		salary.MaxValue = t
	case map[string]any:
		if min, ok := t["minValue"].(float64); ok {
			salary.MinValue = min
		}
		if max, ok := t["maxValue"].(float64); ok {
			salary.MaxValue = max
		}
		if flat, ok := t["value"].(float64); ok && salary.MinValue == 0 && salary.MaxValue == 0 {
			salary.MinValue = flat
			salary.MaxValue = flat
		}
	default:
		return nil
	}

	if salary.MinValue == 0 && salary.MaxValue == 0 {
		return nil
	}
	return salary
}

// experienceText converts an experienceRequirements node to a readable
// requirement. A stated month count becomes "<rounded years>+ years".
func experienceText(v any) string {
	node, ok := v.(map[string]any)
	if !ok {
		return textValue(v)
	}
	if months, ok := node["monthsOfExperience"].(float64); ok && months > 0 {
		years := int(math.Round(months / 12))
		if years < 1 {
			years = 1
		}
		return fmt.Sprintf("%d+ years", years)
	}
	return textValue(v)
}

// educationText resolves educationRequirements, tolerating a string, a
// credential node, or an array of either.
func educationText(v any) string {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := educationText(item); s != "" {
				return s
			}
		}
	case map[string]any:
		if s := textValue(t["credentialCategory"]); s != "" {
			return s
		}
		return textValue(t)
	case string:
		return strings.TrimSpace(t)
	}
	return ""
}

// stringList tolerates a single string or an array of strings, splitting a
// comma-separated single value into its parts.
func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		var out []string
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	case []any:
		var out []string
		for _, item := range t {
			if s := textValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// formatNumber renders a JSON number without a trailing ".000000".
func formatNumber(f float64) string {
	if f == math.Trunc(f) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
