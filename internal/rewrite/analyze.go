package rewrite

import (
	"context"
	"encoding/json"

	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/prompts"
	"github.com/jonathan/job-tailor/internal/schemas"
	"github.com/jonathan/job-tailor/internal/types"
)

const analyzeTemperature float32 = 0.1

// AnalyzeJD runs the first pass of the pipeline: a low-temperature
// structured extraction of the keyword profile from a job description.
// The result feeds the rewrite pass, so any parse or schema failure is
// returned as a *ParseError and the caller must abort.
func AnalyzeJD(ctx context.Context, client llm.Client, jobDescription string) (*types.JDAnalysis, error) {
	template := prompts.MustGet("rewrite.json", "analyze-jd")
	prompt := prompts.MustFormat(template, map[string]string{
		"JobDescription": jobDescription,
	})

	temp := analyzeTemperature
	result, err := client.Generate(ctx, prompt, llm.Options{
		SystemPrompt: prompts.MustGet("rewrite.json", "analyze-jd-system"),
		Temperature:  &temp,
		ForceJSON:    true,
	})
	if err != nil {
		return nil, &APICallError{Pass: "analyze", Message: "job description analysis failed", Cause: err}
	}

	raw, ok := llm.ExtractJSONObject(result.Content)
	if !ok {
		return nil, &ParseError{Pass: "analyze", Message: "response contains no JSON object", Cause: llm.ErrNoJSON}
	}

	if err := schemas.Validate("jd_analysis.schema.json", []byte(raw)); err != nil {
		return nil, &ParseError{Pass: "analyze", Message: "analysis does not match the expected schema", Cause: err}
	}

	var analysis types.JDAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, &ParseError{Pass: "analyze", Message: "failed to decode analysis JSON", Cause: err}
	}

	return &analysis, nil
}
