package practice

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const systemPrompt = `You are a tutor writing practice questions from a student's own study material.

Rules:
- Every question must be answerable from the material alone.
- Multiple choice questions have exactly 4 options with exactly one correct. Distractors should reflect common misunderstandings of the material, not random values.
- True/false questions have exactly the options ["True", "False"].
- correct_index is the zero-based position of the correct option.
- Keep prompts short and self-contained. Do not reference "the text" or "the passage".
- The explanation states briefly why the correct option is right.
- Do not repeat any question from the "already asked" list, and do not ask the same thing twice.`

const truncatedMarker = "\n[material truncated]"

// truncate cuts s to at most max bytes on a rune boundary.
func truncate(s string, max int) (string, bool) {
	if max <= 0 || len(s) <= max {
		return s, false
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}

func typeInstruction(t QuestionType) string {
	switch t {
	case TypeTrueFalse:
		return "true_false only"
	case TypeMixed:
		return "a mix of multiple_choice and true_false"
	default:
		return "multiple_choice only"
	}
}

// buildUserMessage constructs the user message from Input and Config limits.
func buildUserMessage(in Input, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s\n", in.Subject)
	fmt.Fprintf(&b, "Number of questions: %d\n", in.Count)
	fmt.Fprintf(&b, "Question types: %s\n", typeInstruction(in.Type))

	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildDedup(in.PriorPrompts, cfg.MaxPriorPrompts))

	content, cut := truncate(in.Content, cfg.MaxContentChars)
	b.WriteString("\n\nStudy material:\n")
	b.WriteString(content)
	if cut {
		b.WriteString(truncatedMarker)
	}
	return b.String()
}
