package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}
	return p
}

func anthropicMessage(text, stop string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     []map[string]any{{"type": "text", "text": text}},
			"model":       "claude-haiku-4-5",
			"stop_reason": stop,
			"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
		})
	}
}

func anthropicError(status int, kind string, header http.Header) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for k, v := range header {
			w.Header()[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": kind, "message": kind},
		})
	}
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicMessage(`{"minutes":30,"insight":"Fresh start"}`, "end_turn"))
	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a study coach.",
		Messages:  []Message{{Role: RoleUser, Content: "Recommend a session length."}},
		Schema:    sessionSchema,
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.TotalTokens != 80 {
		t.Errorf("usage = %+v, want 50 in / 80 total", resp.Usage)
	}
	if resp.StopReason != StopEnd {
		t.Errorf("StopReason = %q, want %q", resp.StopReason, StopEnd)
	}
}

func TestAnthropicProvider_RateLimitRetryAfter(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicError(http.StatusTooManyRequests, "rate_limit_error",
		http.Header{"Retry-After": []string{"7"}}))
	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "test"}},
		MaxTokens: 100,
	})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("err = %T (%v), want ErrRateLimit", err, err)
	}
	if rl.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %s, want 7s", rl.RetryAfter)
	}
}

func TestAnthropicProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{
			"server error",
			anthropicError(http.StatusInternalServerError, "api_error", nil),
			func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) },
		},
		{
			"bad key",
			anthropicError(http.StatusUnauthorized, "authentication_error", nil),
			func(err error) bool { var e *ErrAuth; return errors.As(err, &e) && !Retryable(err) },
		},
		{
			"truncated",
			anthropicMessage(`{"minutes":`, "max_tokens"),
			func(err error) bool { var e *ErrMaxTokensExceeded; return errors.As(err, &e) },
		},
		{
			"off schema",
			anthropicMessage(`{"insight":"no minutes"}`, "end_turn"),
			func(err error) bool { var e *ErrInvalidResponse; return errors.As(err, &e) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, tt.handler)
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "How long next?"}},
				Schema:    sessionSchema,
				MaxTokens: 100,
			})
			if err == nil || !tt.check(err) {
				t.Fatalf("err = %T (%v)", err, err)
			}
		})
	}
}

func TestAnthropicModelMapping(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"claude-sonnet", "claude-sonnet-4-5"},
		{"claude-haiku", "claude-haiku-4-5"},
		{"claude-sonnet-4-20250514", "claude-sonnet-4-20250514"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, anthropicModels); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
	p := &AnthropicProvider{model: "claude-haiku-4-5"}
	if p.ModelID() != "claude-haiku-4-5" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
}
