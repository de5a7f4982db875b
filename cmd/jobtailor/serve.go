package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the companion server for the browser extension",
	Long:  "Start an HTTP server exposing detection, matching, resume rewriting, and form-fill planning to the browser extension.",
	RunE:  runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8321, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	port := servePort
	if cfg.Port != 0 && !cmd.Flags().Changed("port") {
		port = cfg.Port
	}

	serverCfg := server.Config{
		Port:             port,
		DatabaseURL:      cfg.DatabaseURL,
		ResumePath:       cfg.ResumePath,
		TruncationBudget: cfg.TruncationBudget,
		UseBrowser:       cfg.UseBrowser,
		Verbose:          cfg.Verbose,
	}
	if cfg.APIKey != "" {
		llmCfg := llm.DefaultConfig().WithAPIKey(cfg.APIKey)
		if cfg.Provider != "" {
			llmCfg.Provider = llm.Provider(cfg.Provider)
		}
		if cfg.Model != "" {
			llmCfg.Model = cfg.Model
		}
		serverCfg.LLM = llmCfg
	}

	srv, err := server.New(cmd.Context(), serverCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
