package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/abhisek/studydesk/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with
// timeout, retry and request-logging middleware. A nil eventRepo skips
// request persistence.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		return NewOfflineProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	slog.Debug("llm provider ready", "provider", cfg.Provider, "model", base.ModelID())

	// caller → timeout → retry → logging → base
	var p Provider = base
	if eventRepo != nil {
		p = WithLogging(p, cfg.Provider, eventRepo)
	}
	p = WithRetry(p, cfg.Retry)
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p, nil
}

// ErrNotConfigured is returned by NewProviderFromEnv when neither
// STUDYDESK_LLM_PROVIDER nor a vendor API key is set.
var ErrNotConfigured = errors.New("no LLM provider configured; set STUDYDESK_LLM_PROVIDER or a vendor API key")

// NewProviderFromEnv builds a provider from STUDYDESK_* variables when
// STUDYDESK_LLM_PROVIDER is set, otherwise from the first vendor API key
// found by DiscoverConfig.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	if os.Getenv("STUDYDESK_LLM_PROVIDER") != "" {
		return NewProvider(ctx, ConfigFromEnv(), eventRepo)
	}
	cfg, ok := DiscoverConfig()
	if !ok {
		return nil, ErrNotConfigured
	}
	return NewProvider(ctx, cfg, eventRepo)
}
