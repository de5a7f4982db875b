package rewrite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/prompts"
	"github.com/jonathan/job-tailor/internal/resume"
	"github.com/jonathan/job-tailor/internal/types"
)

const rewriteTemperature float32 = 0.2

// RewriteResume runs the second pass: rewriting the master resume against
// the keyword profile from AnalyzeJD. The output is the complete resume as
// plain text, never a diff or fragment.
func RewriteResume(ctx context.Context, client llm.Client, master *types.MasterResume, analysis *types.JDAnalysis, jobTitle, company string) (string, error) {
	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize analysis: %w", err)
	}

	if jobTitle == "" {
		jobTitle = "the advertised role"
	}
	if company == "" {
		company = "the hiring company"
	}

	template := prompts.MustGet("rewrite.json", "rewrite-resume")
	prompt := prompts.MustFormat(template, map[string]string{
		"JobTitle": jobTitle,
		"Company":  company,
		"Analysis": string(analysisJSON),
		"Resume":   resume.Flatten(master),
	})

	temp := rewriteTemperature
	result, err := client.Generate(ctx, prompt, llm.Options{
		SystemPrompt: prompts.MustGet("rewrite.json", "rewrite-resume-system"),
		Temperature:  &temp,
	})
	if err != nil {
		return "", &APICallError{Pass: "rewrite", Message: "resume rewrite failed", Cause: err}
	}

	text := strings.TrimSpace(result.Content)
	if text == "" {
		return "", &ParseError{Pass: "rewrite", Message: "model returned an empty resume"}
	}
	return text, nil
}
