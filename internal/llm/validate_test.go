package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

var sessionSchema = &Schema{
	Name:        "test-session",
	Description: "A study session suggestion",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"minutes": map[string]any{"type": "integer", "minimum": 1},
			"insight": map[string]any{"type": "string"},
			"mode":    map[string]any{"type": "string", "enum": []any{"study", "short_break", "long_break"}},
		},
		"required": []any{"minutes"},
	},
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"all fields", `{"minutes":30,"insight":"Fresh start","mode":"study"}`, true},
		{"required only", `{"minutes":25}`, true},
		{"integral float", `{"minutes":25.0}`, true},
		{"missing required", `{"insight":"no minutes"}`, false},
		{"wrong type", `{"minutes":"thirty"}`, false},
		{"below minimum", `{"minutes":0}`, false},
		{"fractional", `{"minutes":12.5}`, false},
		{"bad enum", `{"minutes":10,"mode":"nap"}`, false},
		{"malformed", `{not json}`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(sessionSchema, json.RawMessage(tt.raw))
			if tt.valid {
				if err != nil {
					t.Fatalf("validateResponse: %v", err)
				}
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("err = %v (%T), want *ErrInvalidResponse", err, err)
			}
			if string(inv.Content) != tt.raw {
				t.Errorf("content = %q, want %q", inv.Content, tt.raw)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("nil schema: %v", err)
	}
}

func TestValidateResponse_SchemasSharingAName(t *testing.T) {
	questions := &Schema{
		Name: "test-session",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type":     "object",
						"required": []any{"prompt", "options"},
					},
				},
			},
			"required": []any{"questions"},
		},
	}

	raw := json.RawMessage(`{"questions":[{"prompt":"2+2?","options":["3","4"]}]}`)
	if err := validateResponse(questions, raw); err != nil {
		t.Fatalf("questions schema: %v", err)
	}
	if err := validateResponse(sessionSchema, raw); err == nil {
		t.Error("session schema accepted a questions document")
	}
	if err := validateResponse(sessionSchema, json.RawMessage(`{"minutes":20}`)); err != nil {
		t.Errorf("session schema after questions: %v", err)
	}
}
