// Package main provides the entry point for the job-tailor CLI and
// companion server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-tailor/internal/config"
	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/resume"
	"github.com/jonathan/job-tailor/internal/types"
)

var rootCmd = &cobra.Command{
	Use:   "jobtailor",
	Short: "Job posting detection and resume tailoring",
	Long:  "jobtailor detects job postings on web pages, scores them against a master resume, and rewrites the resume and a cover letter for the role via an LLM provider.",
}

var (
	configPath  string
	flagResume  string
	flagVerbose bool
	flagBrowser bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&flagResume, "resume", "", "Path to master resume YAML")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().BoolVar(&flagBrowser, "browser", false, "Use a headless browser for JavaScript-rendered pages")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadAppConfig builds the effective configuration: config file values,
// overlaid with environment variables, overlaid with CLI flags.
func loadAppConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	cfg.ApplyEnv()

	if flagResume != "" {
		cfg.ResumePath = flagResume
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	if flagBrowser {
		cfg.UseBrowser = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadMasterResume loads the resume named by the configuration.
func loadMasterResume(cfg *config.Config) (*types.MasterResume, error) {
	if cfg.ResumePath == "" {
		return nil, fmt.Errorf("a master resume is required: pass --resume or set JOB_TAILOR_RESUME")
	}
	return resume.Load(cfg.ResumePath)
}

// newLLMClient builds the provider client from the configuration.
func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("an API key is required: set JOB_TAILOR_API_KEY or GEMINI_API_KEY")
	}
	llmCfg := llm.DefaultConfig().WithAPIKey(cfg.APIKey)
	if cfg.Provider != "" {
		llmCfg.Provider = llm.Provider(cfg.Provider)
	}
	if cfg.Model != "" {
		llmCfg.Model = cfg.Model
	}
	return llm.NewClient(ctx, llmCfg)
}
