package llm

// Provider identifies an LLM provider.
type Provider string

// Provider constants define supported LLM providers.
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider (future)
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is the Anthropic/Claude provider (future)
	ProviderAnthropic Provider = "anthropic"
)

// Config holds the provider configuration for generation calls.
type Config struct {
	Provider           Provider
	Model              string
	APIKey             string
	DefaultTemperature float32
}

// DefaultConfig returns the default configuration (currently Gemini).
func DefaultConfig() *Config {
	return &Config{
		Provider:           ProviderGemini,
		Model:              "gemini-2.5-flash",
		DefaultTemperature: 0.2,
	}
}

// WithAPIKey returns a copy of the config with the API key set.
func (c *Config) WithAPIKey(apiKey string) *Config {
	out := *c
	out.APIKey = apiKey
	return &out
}
