package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  "gpt-4o-mini",
	}
}

// chatCompletion answers with a single choice.
func chatCompletion(content, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}
}

func openAIError(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	// Only the fields under test; go-openai's Schema field is an interface
	// and does not decode.
	var sent struct {
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
		ResponseFormat *struct {
			JSONSchema *struct {
				Name   string `json:"name"`
				Strict bool   `json:"strict"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		chatCompletion(`{"minutes":30,"insight":"Fresh start"}`, "stop")(w, r)
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a study coach.",
		Messages:  []Message{{Role: RoleUser, Content: "Recommend a session length."}},
		Schema:    sessionSchema,
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Errorf("usage = %+v, want 40/25", resp.Usage)
	}
	if resp.StopReason != StopEnd {
		t.Errorf("StopReason = %q, want %q", resp.StopReason, StopEnd)
	}
	if len(sent.Messages) != 2 || sent.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("messages = %+v, want system then user", sent.Messages)
	}
	if sent.ResponseFormat == nil || sent.ResponseFormat.JSONSchema == nil || sent.ResponseFormat.JSONSchema.Name != sessionSchema.Name {
		t.Errorf("response format = %+v, want json_schema %q", sent.ResponseFormat, sessionSchema.Name)
	} else if sent.ResponseFormat.JSONSchema.Strict {
		t.Error("a schema with optional fields must not be sent as strict")
	}
}

func TestStrictCompatible(t *testing.T) {
	closed := func(props map[string]any, required ...any) map[string]any {
		return map[string]any{"type": "object", "properties": props, "required": required, "additionalProperties": false}
	}
	str := map[string]any{"type": "string"}

	tests := []struct {
		name string
		def  map[string]any
		want bool
	}{
		{"closed and all required", closed(map[string]any{"a": str}, "a"), true},
		{"optional field", closed(map[string]any{"a": str, "b": str}, "a"), false},
		{"open object", map[string]any{"type": "object", "properties": map[string]any{"a": str}, "required": []any{"a"}}, false},
		{"nested array of open objects", closed(map[string]any{
			"qs": map[string]any{"type": "array", "items": map[string]any{"type": "object", "properties": map[string]any{"p": str}}},
		}, "qs"), false},
		{"nested array of closed objects", closed(map[string]any{
			"qs": map[string]any{"type": "array", "items": closed(map[string]any{"p": str}, "p")},
		}, "qs"), true},
		{"scalar", str, true},
	}
	for _, tt := range tests {
		if got := strictCompatible(tt.def); got != tt.want {
			t.Errorf("%s: strictCompatible = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{
			"rate limit",
			openAIError(http.StatusTooManyRequests, `{"error":{"type":"tokens","message":"Rate limit exceeded","code":"rate_limit_exceeded"}}`),
			func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) },
		},
		{
			"server error",
			openAIError(http.StatusInternalServerError, `{"error":{"type":"server_error","message":"boom"}}`),
			func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) },
		},
		{
			"bad key",
			openAIError(http.StatusUnauthorized, `{"error":{"type":"invalid_request_error","message":"Incorrect API key","code":"invalid_api_key"}}`),
			func(err error) bool { var e *ErrAuth; return errors.As(err, &e) },
		},
		{
			"proxy html",
			openAIError(http.StatusBadGateway, `<html>bad gateway</html>`),
			func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) },
		},
		{
			"truncated",
			chatCompletion(`{"minutes":3`, "length"),
			func(err error) bool { var e *ErrMaxTokensExceeded; return errors.As(err, &e) },
		},
		{
			"off schema",
			chatCompletion(`{"minutes":"half an hour"}`, "stop"),
			func(err error) bool { var e *ErrInvalidResponse; return errors.As(err, &e) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, tt.handler)
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

func TestNewOpenAIProvider(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: "https://llm.example/v1"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	if p.ModelID() != "gpt-4o" {
		t.Errorf("ModelID = %q, want gpt-4o", p.ModelID())
	}
	if _, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o"}); err == nil {
		t.Error("expected error without an API key")
	}
}
