package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tailor/internal/config"
	"github.com/jonathan/job-tailor/internal/fetch"
	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/observability"
	"github.com/jonathan/job-tailor/internal/skills"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score the master resume against a job description",
	Long:  "Score the master resume against a job description from a file or a URL, printing the match result as JSON.",
	RunE:  runMatch,
}

var (
	matchJDFile string
	matchURL    string
)

func init() {
	matchCmd.Flags().StringVarP(&matchJDFile, "jd-file", "j", "", "Path to a job description text file")
	matchCmd.Flags().StringVarP(&matchURL, "url", "u", "", "URL to detect the job description from")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	master, err := loadMasterResume(cfg)
	if err != nil {
		return err
	}

	jd, _, _, err := resolveJobDescription(cmd.Context(), cfg, matchJDFile, matchURL, nil)
	if err != nil {
		return err
	}

	matcher, err := skills.NewMatcher()
	if err != nil {
		return err
	}

	result := matcher.Match(master, jd)
	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintMatch(result)
	}
	return printJSON(result)
}

// resolveJobDescription reads the JD from a file or detects it from a URL.
// A non-nil client enables the LLM extraction fallback for the URL path.
func resolveJobDescription(ctx context.Context, cfg *config.Config, jdFile, url string, client llm.Client) (jd, title, company string, err error) {
	if jdFile != "" && url != "" {
		return "", "", "", fmt.Errorf("--jd-file and --url are mutually exclusive; provide only one")
	}

	if jdFile != "" {
		data, err := os.ReadFile(jdFile)
		if err != nil {
			return "", "", "", fmt.Errorf("failed to read job description: %w", err)
		}
		return string(data), "", "", nil
	}
	if url == "" {
		return "", "", "", fmt.Errorf("either --jd-file or --url must be provided")
	}

	p, err := fetch.Page(ctx, url, &fetch.Options{
		Timeout:    fetch.DefaultTimeout,
		UserAgent:  fetch.DefaultUserAgent,
		UseBrowser: cfg.UseBrowser,
		Verbose:    cfg.Verbose,
	})
	if err != nil {
		return "", "", "", err
	}

	budget := cfg.TruncationBudget
	if budget <= 0 {
		budget = llm.DefaultTruncationBudget
	}
	out := detectOne(ctx, p, url, client, budget)
	if out.Error != "" {
		return "", "", "", fmt.Errorf("%s", out.Error)
	}
	if out.Detection == nil || out.Detection.JD == "" {
		return "", "", "", fmt.Errorf("no job description found at %s", url)
	}
	return out.Detection.JD, out.Detection.JobTitle, out.Detection.Company, nil
}
