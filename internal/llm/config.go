package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider and STUDYDESK_LLM_PROVIDER.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Optional, for a gateway in front of the API.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional, for OpenAI-compatible APIs.
	Headers map[string]string
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults. Recommendation
// requests are small and latency-sensitive, so the timeout is short.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 20 * time.Second,
	}
}

// setFromEnv copies the value of env into dst when it is set.
func setFromEnv(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// ConfigFromEnv builds a Config from STUDYDESK_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	setFromEnv(&cfg.Provider, "STUDYDESK_LLM_PROVIDER")

	setFromEnv(&cfg.Anthropic.APIKey, "STUDYDESK_ANTHROPIC_API_KEY")
	setFromEnv(&cfg.Anthropic.Model, "STUDYDESK_ANTHROPIC_MODEL")
	setFromEnv(&cfg.Anthropic.BaseURL, "STUDYDESK_ANTHROPIC_BASE_URL")

	setFromEnv(&cfg.OpenAI.APIKey, "STUDYDESK_OPENAI_API_KEY")
	setFromEnv(&cfg.OpenAI.Model, "STUDYDESK_OPENAI_MODEL")
	setFromEnv(&cfg.OpenAI.BaseURL, "STUDYDESK_OPENAI_BASE_URL")

	setFromEnv(&cfg.Gemini.APIKey, "STUDYDESK_GEMINI_API_KEY")
	setFromEnv(&cfg.Gemini.Model, "STUDYDESK_GEMINI_MODEL")

	setFromEnv(&cfg.OpenRouter.APIKey, "STUDYDESK_OPENROUTER_API_KEY")
	setFromEnv(&cfg.OpenRouter.Model, "STUDYDESK_OPENROUTER_MODEL")

	if t := os.Getenv("STUDYDESK_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// DiscoverConfig probes the vendors' standard API key variables in
// priority order and returns a Config for the first provider whose key is
// found. Returns (Config{}, false) if none is set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	probes := []struct {
		env      string
		provider string
		key      *string
	}{
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI.APIKey},
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			*p.key = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "STUDYDESK_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "STUDYDESK_OPENAI_API_KEY"
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "STUDYDESK_GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "STUDYDESK_OPENROUTER_API_KEY"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
