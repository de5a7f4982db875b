package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific
// endpoint. Path supports prefix matching when it ends in "/".
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // maximum requests per window
	Window time.Duration // time window
	Burst  int           // burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default per-endpoint limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: endpoints that call the LLM provider (strictest limits)
		{Path: "/optimize", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/cover-letter", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},

		// Tier 2: detection may fall back to an LLM call
		{Path: "/detect", Method: "POST", Limit: 120, Window: time.Hour, Burst: 10},
		{Path: "/message", Method: "POST", Limit: 300, Window: time.Hour, Burst: 20},

		// Tier 3: pairing attempts (bcrypt verification is deliberately slow)
		{Path: "/pair", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},

		// Tier 4: writes
		{Path: "/postings", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/postings/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/resumes", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},

		// Reads are handled by the default limit; /health is unlimited via
		// the matcher's special case.
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
