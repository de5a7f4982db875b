package rewrite

import (
	"context"
	"log"

	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/types"
)

// Result holds the output of a full two-pass optimization.
type Result struct {
	ResumeText string           `json:"resumeText"`
	Analysis   *types.JDAnalysis `json:"analysis"`
}

// Optimize runs the two passes strictly in sequence: analyze the job
// description, then rewrite the resume against the analysis. If either
// pass fails the whole request fails; there is no partial output.
func Optimize(ctx context.Context, client llm.Client, master *types.MasterResume, jobDescription, jobTitle, company string) (*Result, error) {
	log.Printf("[rewrite] pass 1: analyzing job description (%d chars)", len(jobDescription))
	analysis, err := AnalyzeJD(ctx, client, jobDescription)
	if err != nil {
		return nil, err
	}
	log.Printf("[rewrite] pass 1 complete: %d must-have, %d nice-to-have keywords",
		len(analysis.KeywordPriorities.MustHave), len(analysis.KeywordPriorities.NiceToHave))

	log.Printf("[rewrite] pass 2: rewriting resume for %q at %q", jobTitle, company)
	text, err := RewriteResume(ctx, client, master, analysis, jobTitle, company)
	if err != nil {
		return nil, err
	}
	log.Printf("[rewrite] pass 2 complete: %d chars", len(text))

	return &Result{ResumeText: text, Analysis: analysis}, nil
}
