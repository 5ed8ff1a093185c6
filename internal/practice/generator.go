// Package practice generates practice quizzes from study material with an
// LLM and records finished attempts.
package practice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/studydesk/internal/llm"
	"github.com/abhisek/studydesk/internal/quiz"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// questionSetOutput is the raw LLM response before validation.
type questionSetOutput struct {
	Questions []struct {
		Prompt       string   `json:"prompt"`
		Type         string   `json:"type"`
		Options      []string `json:"options"`
		CorrectIndex int      `json:"correct_index"`
		Explanation  string   `json:"explanation"`
	} `json:"questions"`
}

// Generate produces up to in.Count validated questions. Questions that
// fail validation or repeat an earlier prompt are dropped.
func (g *LLMGenerator) Generate(ctx context.Context, in Input) ([]quiz.Question, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, ErrNoContent
	}
	in = normalizeInput(in)
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(in, g.config)}},
		Schema:      QuestionSetSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw questionSetOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	seen := make(map[string]bool, len(in.PriorPrompts)+len(raw.Questions))
	for _, p := range in.PriorPrompts {
		seen[promptKey(p)] = true
	}

	var out []quiz.Question
	for i, r := range raw.Questions {
		c := &Candidate{
			Prompt:       strings.TrimSpace(r.Prompt),
			Type:         QuestionType(r.Type),
			Options:      r.Options,
			CorrectIndex: r.CorrectIndex,
			Explanation:  strings.TrimSpace(r.Explanation),
		}
		if verr := g.validate(c, in); verr != nil {
			slog.Debug("dropping generated question", "index", i, "reason", verr.Error())
			continue
		}
		key := promptKey(c.Prompt)
		if seen[key] {
			slog.Debug("dropping duplicate question", "index", i)
			continue
		}
		seen[key] = true

		out = append(out, quiz.Question{
			Prompt:       c.Prompt,
			Options:      c.Options,
			CorrectIndex: c.CorrectIndex,
			Explanation:  c.Explanation,
		})
		if len(out) == in.Count {
			break
		}
	}

	if len(out) == 0 {
		return nil, ErrNoValidQuestions
	}
	return out, nil
}

func (g *LLMGenerator) validate(c *Candidate, in Input) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(c, in); verr != nil {
			return verr
		}
	}
	return nil
}

func normalizeInput(in Input) Input {
	switch {
	case in.Count <= 0:
		in.Count = DefaultCount
	case in.Count > MaxCount:
		in.Count = MaxCount
	}
	if in.Type == "" {
		in.Type = TypeMultipleChoice
	}
	if strings.TrimSpace(in.Subject) == "" {
		in.Subject = "General"
	}
	return in
}
