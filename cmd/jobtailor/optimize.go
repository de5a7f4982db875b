package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tailor/internal/observability"
	"github.com/jonathan/job-tailor/internal/rewrite"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Rewrite the master resume for a job posting",
	Long:  "Run the two-pass pipeline: analyze the job description for its keyword profile, then rewrite the master resume against it.",
	RunE:  runOptimize,
}

var (
	optimizeJDFile  string
	optimizeURL     string
	optimizeTitle   string
	optimizeCompany string
	optimizeOut     string
)

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeJDFile, "jd-file", "j", "", "Path to a job description text file")
	optimizeCmd.Flags().StringVarP(&optimizeURL, "url", "u", "", "URL to detect the job description from")
	optimizeCmd.Flags().StringVar(&optimizeTitle, "title", "", "Job title (detected from the page when omitted)")
	optimizeCmd.Flags().StringVar(&optimizeCompany, "company", "", "Company name (detected from the page when omitted)")
	optimizeCmd.Flags().StringVarP(&optimizeOut, "out", "o", "", "Write the rewritten resume to this file instead of stdout")

	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	master, err := loadMasterResume(cfg)
	if err != nil {
		return err
	}

	client, err := newLLMClient(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	jd, title, company, err := resolveJobDescription(cmd.Context(), cfg, optimizeJDFile, optimizeURL, client)
	if err != nil {
		return err
	}
	if optimizeTitle != "" {
		title = optimizeTitle
	}
	if optimizeCompany != "" {
		company = optimizeCompany
	}

	result, err := rewrite.Optimize(cmd.Context(), client, master, jd, title, company)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintAnalysis(result.Analysis)
	}

	if optimizeOut != "" {
		if err := os.WriteFile(optimizeOut, []byte(result.ResumeText+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write resume: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Rewritten resume: %s\n", optimizeOut)
		return printJSON(result.Analysis)
	}

	fmt.Fprintln(os.Stdout, result.ResumeText)
	return nil
}
