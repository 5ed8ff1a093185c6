package practice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/studydesk/internal/quiz"
	"github.com/abhisek/studydesk/internal/store"
)

// Attempt is a finished quiz ready to be recorded.
type Attempt struct {
	QuizID     string
	UserID     string
	MaterialID string
	Subject    string
	Result     quiz.Result
	FinishedAt time.Time
}

// NewQuizID returns a fresh quiz identifier.
func NewQuizID() string {
	return uuid.NewString()
}

// Record stores a finished attempt.
func Record(ctx context.Context, repo store.EventRepo, a Attempt) error {
	answers := make([]store.QuizAnswerData, len(a.Result.Answers))
	for i, ans := range a.Result.Answers {
		answers[i] = store.QuizAnswerData{
			QuestionIndex: ans.QuestionIndex,
			Selected:      ans.Selected,
			CorrectIndex:  ans.CorrectIndex,
			Correct:       ans.Correct,
			TimedOut:      ans.TimedOut,
		}
	}
	err := repo.AppendQuizAttempt(ctx, store.QuizAttemptData{
		QuizID:        a.QuizID,
		UserID:        a.UserID,
		MaterialID:    a.MaterialID,
		Subject:       a.Subject,
		QuestionCount: a.Result.Total,
		Score:         a.Result.Score,
		ElapsedSecs:   a.Result.ElapsedSeconds,
		Answers:       answers,
		Timestamp:     a.FinishedAt,
	})
	if err != nil {
		return fmt.Errorf("record quiz attempt: %w", err)
	}
	return nil
}
