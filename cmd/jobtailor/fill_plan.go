package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tailor/internal/formfill"
	"github.com/jonathan/job-tailor/internal/page"
)

var fillPlanCmd = &cobra.Command{
	Use:   "fill-plan",
	Short: "Plan form fills for an application page",
	Long:  "Scan a saved application page for fillable fields, match them against a candidate profile, and print the planned writes as JSON.",
	RunE:  runFillPlan,
}

var (
	fillHTMLFile    string
	fillProfileFile string
	fillFieldsOnly  bool
)

func init() {
	fillPlanCmd.Flags().StringVar(&fillHTMLFile, "html-file", "", "Path to the saved application page HTML (required)")
	fillPlanCmd.Flags().StringVar(&fillProfileFile, "profile", "", "Path to a JSON file with the candidate profile")
	fillPlanCmd.Flags().BoolVar(&fillFieldsOnly, "fields", false, "Only list the detected form fields")

	_ = fillPlanCmd.MarkFlagRequired("html-file")

	rootCmd.AddCommand(fillPlanCmd)
}

func runFillPlan(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(fillHTMLFile)
	if err != nil {
		return fmt.Errorf("failed to read HTML file: %w", err)
	}

	p, err := page.New(string(data), "")
	if err != nil {
		return err
	}
	fields := p.FormFields()

	if fillFieldsOnly {
		return printJSON(fields)
	}

	if fillProfileFile == "" {
		return fmt.Errorf("--profile is required unless --fields is set")
	}
	profileData, err := os.ReadFile(fillProfileFile)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}
	var profile formfill.Profile
	if err := json.Unmarshal(profileData, &profile); err != nil {
		return fmt.Errorf("failed to parse profile: %w", err)
	}

	engine, err := formfill.NewEngine()
	if err != nil {
		return err
	}
	return printJSON(engine.BuildPlan(fields, profile))
}
