package practice

import (
	"context"
	"errors"

	"github.com/abhisek/studydesk/internal/quiz"
)

// QuestionType selects the kind of questions to generate.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	TypeMixed          QuestionType = "mixed"
)

// ParseType accepts the stored value or a short alias ("mc", "tf").
func ParseType(s string) (QuestionType, error) {
	switch s {
	case "", "multiple_choice", "mc":
		return TypeMultipleChoice, nil
	case "true_false", "tf":
		return TypeTrueFalse, nil
	case "mixed":
		return TypeMixed, nil
	}
	return "", errors.New("question type must be multiple_choice, true_false or mixed")
}

// Bounds on the number of questions per request.
const (
	DefaultCount = 5
	MaxCount     = 20
)

// ErrNoValidQuestions is returned when every generated question failed
// validation.
var ErrNoValidQuestions = errors.New("no valid questions were generated")

// ErrNoContent is returned when the material has no text to quiz on.
var ErrNoContent = errors.New("material has no text content")

// Input holds everything needed to generate a question set.
type Input struct {
	// Content is the study material text. It is truncated to
	// Config.MaxContentChars before being sent.
	Content string

	Subject string

	// Count is the number of questions wanted; 0 means DefaultCount.
	Count int

	Type QuestionType

	// PriorPrompts are questions already asked on this material. New
	// questions must not repeat them.
	PriorPrompts []string
}

// Generator produces practice questions.
type Generator interface {
	Generate(ctx context.Context, in Input) ([]quiz.Question, error)
}
