package practice

import "strings"

// Option count bounds for multiple choice questions.
const (
	MinOptions = 2
	MaxOptions = 6
)

// StructuralValidator checks that required fields are present, within
// length limits, and consistent with the question type.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Candidate, in Input) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg}
	}

	if strings.TrimSpace(q.Prompt) == "" {
		return fail("prompt is empty")
	}
	if len(q.Prompt) > 500 {
		return fail("prompt exceeds 500 characters")
	}
	if len(q.Explanation) > 1000 {
		return fail("explanation exceeds 1000 characters")
	}
	if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
		return fail("options must have between 2 and 6 entries")
	}
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return fail("option is empty")
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fail("correct_index is out of range")
	}

	switch q.Type {
	case TypeTrueFalse:
		if len(q.Options) != 2 {
			return fail("true_false questions must have exactly two options")
		}
	case TypeMultipleChoice:
	default:
		return fail("type must be \"multiple_choice\" or \"true_false\"")
	}
	if in.Type != TypeMixed && in.Type != "" && q.Type != in.Type {
		return fail("type does not match the requested type")
	}
	return nil
}
