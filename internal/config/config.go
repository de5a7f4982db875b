// Package config provides configuration loading and validation for the CLI
// and the companion server. Configuration is an injected value, not a
// package-level singleton: load it once in main and pass it down.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the application configuration. Values are loaded from an
// optional JSON file, then overlaid with environment variables; CLI flags win
// over both.
type Config struct {
	// Paths
	ResumePath string `json:"resume,omitempty"` // Path to the master resume YAML

	// LLM provider
	Provider string `json:"provider,omitempty"` // gemini, openai, anthropic
	Model    string `json:"model,omitempty"`    // Provider model name
	APIKey   string `json:"api_key,omitempty"`  // Provider API key

	// Server
	Port        int    `json:"port,omitempty"`         // Companion server port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Behavior
	TruncationBudget int  `json:"truncation_budget,omitempty"` // Max chars of page text sent to the LLM
	UseBrowser       bool `json:"use_browser,omitempty"`       // Use headless browser for SPA sites
	Verbose          bool `json:"verbose,omitempty"`           // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overlays environment variables onto the config. Only set
// variables override; JOB_TAILOR_API_KEY falls back to GEMINI_API_KEY for
// the default provider.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("JOB_TAILOR_RESUME"); v != "" {
		c.ResumePath = v
	}
	if v := os.Getenv("JOB_TAILOR_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("JOB_TAILOR_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("JOB_TAILOR_API_KEY"); v != "" {
		c.APIKey = v
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.APIKey == "" {
		c.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("JOB_TAILOR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.TruncationBudget < 0 {
		return fmt.Errorf("config error: 'truncation_budget' must be non-negative")
	}
	if c.ResumePath != "" {
		if _, err := os.Stat(c.ResumePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", c.ResumePath)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.ResumePath == "" {
		result.ResumePath = defaults.ResumePath
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.TruncationBudget == 0 {
		result.TruncationBudget = defaults.TruncationBudget
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
