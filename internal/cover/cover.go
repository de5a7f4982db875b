// Package cover generates a cover letter for a job application from the
// master resume and the detected job description. Unlike the resume
// pipeline this is a single pass: a cover letter has no structured
// intermediate worth validating.
package cover

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/prompts"
	"github.com/jonathan/job-tailor/internal/resume"
	"github.com/jonathan/job-tailor/internal/types"
)

const letterTemperature float32 = 0.3

// Generate produces a plain-text cover letter. The job description is
// required; title and company fall back to generic phrasing when the
// detector could not recover them.
func Generate(ctx context.Context, client llm.Client, master *types.MasterResume, jobDescription, jobTitle, company string) (string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return "", fmt.Errorf("job description is required")
	}
	if jobTitle == "" {
		jobTitle = "the advertised role"
	}
	if company == "" {
		company = "the hiring company"
	}

	template := prompts.MustGet("cover.json", "cover-letter")
	prompt := prompts.MustFormat(template, map[string]string{
		"JobTitle":       jobTitle,
		"Company":        company,
		"JobDescription": jobDescription,
		"Resume":         resume.Flatten(master),
	})

	temp := letterTemperature
	result, err := client.Generate(ctx, prompt, llm.Options{
		SystemPrompt: prompts.MustGet("cover.json", "cover-letter-system"),
		Temperature:  &temp,
	})
	if err != nil {
		return "", fmt.Errorf("cover letter generation failed: %w", err)
	}

	text := strings.TrimSpace(result.Content)
	if text == "" {
		return "", fmt.Errorf("model returned an empty cover letter")
	}
	return text, nil
}
