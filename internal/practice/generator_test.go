package practice

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studydesk/internal/llm"
	"github.com/abhisek/studydesk/internal/quiz"
	"github.com/abhisek/studydesk/internal/store"
)

const cellsNotes = "The mitochondria is the powerhouse of the cell. Ribosomes build proteins."

func questionSet() json.RawMessage {
	return json.RawMessage(`{"questions": [
		{"prompt": "What produces most ATP?", "type": "multiple_choice",
		 "options": ["Nucleus", "Mitochondria", "Ribosome", "Vacuole"], "correct_index": 1,
		 "explanation": "Mitochondria run cellular respiration."},
		{"prompt": "Ribosomes build proteins.", "type": "true_false",
		 "options": ["True", "False"], "correct_index": 0, "explanation": "They translate mRNA."},
		{"prompt": "what  produces most ATP?", "type": "multiple_choice",
		 "options": ["A", "B"], "correct_index": 0, "explanation": "dup"},
		{"prompt": "Broken", "type": "multiple_choice",
		 "options": ["A", "B"], "correct_index": 5, "explanation": "bad index"}
	]}`)
}

func TestGenerateDropsInvalidAndDuplicates(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: questionSet()})
	gen := New(mock, DefaultConfig())

	qs, err := gen.Generate(context.Background(), Input{Content: cellsNotes, Subject: "Biology", Type: TypeMixed})
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "What produces most ATP?", qs[0].Prompt)
	assert.Equal(t, 1, qs[0].CorrectIndex)
	assert.Equal(t, []string{"True", "False"}, qs[1].Options)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, QuestionSetSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "Subject: Biology")
	assert.Contains(t, req.Messages[0].Content, "Number of questions: 5")
	assert.Contains(t, req.Messages[0].Content, cellsNotes)
}

func TestGenerateRespectsTypeAndCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: questionSet()})
	gen := New(mock, DefaultConfig())

	// Only multiple choice is accepted, and only one is wanted.
	qs, err := gen.Generate(context.Background(), Input{Content: cellsNotes, Count: 1})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "What produces most ATP?", qs[0].Prompt)
}

func TestGenerateSkipsPriorPrompts(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: questionSet()})
	gen := New(mock, DefaultConfig())

	qs, err := gen.Generate(context.Background(), Input{
		Content:      cellsNotes,
		Type:         TypeMixed,
		PriorPrompts: []string{"WHAT PRODUCES MOST ATP?"},
	})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "Ribosomes build proteins.", qs[0].Prompt)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "1. WHAT PRODUCES MOST ATP?")
}

func TestGenerateErrors(t *testing.T) {
	ctx := context.Background()

	_, err := New(llm.NewMockProvider(), DefaultConfig()).Generate(ctx, Input{Content: "  "})
	assert.ErrorIs(t, err, ErrNoContent)

	providerErr := &llm.ErrRateLimit{}
	_, err = New(llm.NewMockProvider(llm.MockResponse{Err: providerErr}), DefaultConfig()).Generate(ctx, Input{Content: cellsNotes})
	var rl *llm.ErrRateLimit
	assert.True(t, errors.As(err, &rl))

	empty := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions": []}`)})
	_, err = New(empty, DefaultConfig()).Generate(ctx, Input{Content: cellsNotes})
	assert.ErrorIs(t, err, ErrNoValidQuestions)

	garbage := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`"not an object"`)})
	_, err = New(garbage, DefaultConfig()).Generate(ctx, Input{Content: cellsNotes})
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in      string
		max     int
		want    string
		wantCut bool
	}{
		{"hello", 10, "hello", false},
		{"hello", 0, "hello", false},
		{"hello world", 5, "hello", true},
		{"héllo", 2, "h", true},
		{"héllo", 3, "hé", true},
	}
	for _, tt := range tests {
		got, cut := truncate(tt.in, tt.max)
		if got != tt.want || cut != tt.wantCut {
			t.Errorf("truncate(%q, %d) = %q, %v; want %q, %v", tt.in, tt.max, got, cut, tt.want, tt.wantCut)
		}
	}
}

func TestUserMessageTruncatesContent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxContentChars = 20
	msg := buildUserMessage(Input{Content: strings.Repeat("x", 100), Subject: "S", Count: 3}, cfg)
	if !strings.Contains(msg, strings.Repeat("x", 20)+truncatedMarker) {
		t.Errorf("message not truncated:\n%s", msg)
	}
	if strings.Contains(msg, strings.Repeat("x", 21)) {
		t.Error("message contains more than MaxContentChars of material")
	}
}

func TestParseType(t *testing.T) {
	for in, want := range map[string]QuestionType{"": TypeMultipleChoice, "mc": TypeMultipleChoice, "tf": TypeTrueFalse, "mixed": TypeMixed} {
		got, err := ParseType(in)
		if err != nil || got != want {
			t.Errorf("ParseType(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseType("essay"); err == nil {
		t.Error("ParseType(essay) should fail")
	}
}

func TestRecordAttempt(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "practice.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	sel := 1
	res := quiz.Result{
		Answers: []quiz.Answer{
			{QuestionIndex: 0, Selected: &sel, CorrectIndex: 1, Correct: true},
			{QuestionIndex: 1, CorrectIndex: 0, TimedOut: true},
		},
		Score:          1,
		Total:          2,
		ElapsedSeconds: 31,
	}
	id := NewQuizID()
	finished := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	require.NoError(t, Record(ctx, s.EventRepo(), Attempt{
		QuizID: id, UserID: "local", MaterialID: "m1", Subject: "Biology", Result: res, FinishedAt: finished,
	}))

	got, err := s.EventRepo().QueryQuizAttempts(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	a := got[0]
	assert.Equal(t, id, a.QuizID)
	assert.Equal(t, 2, a.QuestionCount)
	assert.Equal(t, 1, a.Score)
	assert.Equal(t, 31, a.ElapsedSecs)
	require.Len(t, a.Answers, 2)
	require.NotNil(t, a.Answers[0].Selected)
	assert.Equal(t, 1, *a.Answers[0].Selected)
	assert.True(t, a.Answers[1].TimedOut)
	assert.True(t, a.Timestamp.Equal(finished))
}
