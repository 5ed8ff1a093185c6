package practice

import "fmt"

// Validator checks a generated question.
type Validator interface {
	Name() string
	Validate(q *Candidate, in Input) *ValidationError
}

// Candidate is a generated question before validation.
type Candidate struct {
	Prompt       string
	Type         QuestionType
	Options      []string
	CorrectIndex int
	Explanation  string
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
