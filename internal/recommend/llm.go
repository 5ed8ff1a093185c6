package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/studydesk/internal/llm"
)

// LLMConfig holds generation settings for the AI recommender.
type LLMConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultLLMConfig returns sensible defaults for recommendation requests.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		MaxTokens:   256,
		Temperature: 0.3,
	}
}

// Schema is the structured output the model must return.
var Schema = &llm.Schema{
	Name:        "session-recommendation",
	Description: "Recommended length of the next study session",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"minutes": map[string]any{
				"type":        "integer",
				"description": "Recommended session length in minutes (5-60)",
				"minimum":     1,
			},
			"insight": map[string]any{
				"type":        "string",
				"description": "One short sentence explaining the recommendation",
			},
		},
		"required":             []any{"minutes", "insight"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are a study coach. Given a student's study statistics for today, recommend the length of their next focused study session. Favor shorter sessions when the student is tired or it is late, and longer ones when they are fresh.`

// LLM asks the configured language model for a recommendation.
type LLM struct {
	provider llm.Provider
	cfg      LLMConfig
}

// NewLLM creates an AI recommender.
func NewLLM(provider llm.Provider, cfg LLMConfig) *LLM {
	return &LLM{provider: provider, cfg: cfg}
}

func (r *LLM) Recommend(ctx context.Context, in Input) (Result, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeRecommendation)

	resp, err := r.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(in)}},
		Schema:      Schema,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		return Result{}, fmt.Errorf("recommendation: %w", err)
	}

	res, err := Normalize(resp.Content)
	if err != nil {
		return Result{}, fmt.Errorf("parse recommendation: %w", err)
	}
	res.Method = MethodAI
	return res, nil
}

func buildUserMessage(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hours studied today: %.2f\n", in.HoursStudiedToday)
	fmt.Fprintf(&b, "Completed sessions today: %d\n", in.CompletedSessions)
	if in.AverageSessionMinutes > 0 {
		fmt.Fprintf(&b, "Average session length: %.1f minutes\n", in.AverageSessionMinutes)
	}
	fmt.Fprintf(&b, "Current hour (0-23): %d\n", in.HourOfDay)
	if in.Fatigued {
		b.WriteString("The student is likely fatigued.\n")
	}
	fmt.Fprintf(&b, "\nRecommend between %d and %d minutes.", MinMinutes, MaxMinutes)
	return b.String()
}
