package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tailor/internal/cover"
)

var coverCmd = &cobra.Command{
	Use:   "cover-letter",
	Short: "Generate a cover letter for a job posting",
	RunE:  runCoverLetter,
}

var (
	coverJDFile  string
	coverURL     string
	coverTitle   string
	coverCompany string
	coverOut     string
)

func init() {
	coverCmd.Flags().StringVarP(&coverJDFile, "jd-file", "j", "", "Path to a job description text file")
	coverCmd.Flags().StringVarP(&coverURL, "url", "u", "", "URL to detect the job description from")
	coverCmd.Flags().StringVar(&coverTitle, "title", "", "Job title (detected from the page when omitted)")
	coverCmd.Flags().StringVar(&coverCompany, "company", "", "Company name (detected from the page when omitted)")
	coverCmd.Flags().StringVarP(&coverOut, "out", "o", "", "Write the letter to this file instead of stdout")

	rootCmd.AddCommand(coverCmd)
}

func runCoverLetter(cmd *cobra.Command, args []string) error {
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

	jd, title, company, err := resolveJobDescription(cmd.Context(), cfg, coverJDFile, coverURL, client)
	if err != nil {
		return err
	}
	if coverTitle != "" {
		title = coverTitle
	}
	if coverCompany != "" {
		company = coverCompany
	}

	letter, err := cover.Generate(cmd.Context(), client, master, jd, title, company)
	if err != nil {
		return err
	}

	if coverOut != "" {
		if err := os.WriteFile(coverOut, []byte(letter+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write cover letter: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Cover letter: %s\n", coverOut)
		return nil
	}

	fmt.Fprintln(os.Stdout, letter)
	return nil
}
