package analytics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studydesk/internal/store"
)

var now = time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

func study(day int, mins int, ai bool) store.SessionRecord {
	return store.SessionRecord{
		Mode:          "study",
		ElapsedSecs:   mins * 60,
		Completed:     true,
		AIRecommended: ai,
		UpdatedAt:     time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC),
	}
}

func TestCompute(t *testing.T) {
	sessions := []store.SessionRecord{
		study(10, 25, true),
		study(10, 25, false),
		study(9, 40, true),
		study(1, 60, true), // outside the window, but the best day
		{Mode: "short_break", ElapsedSecs: 300, Completed: true, UpdatedAt: now},
		{Mode: "study", ElapsedSecs: 600, Completed: false, UpdatedAt: now},
	}
	attempts := []store.QuizAttemptRecord{
		{QuizAttemptData: store.QuizAttemptData{QuestionCount: 10, Score: 7}},
		{QuizAttemptData: store.QuizAttemptData{QuestionCount: 5, Score: 5}},
	}

	st := Compute(sessions, attempts, now, 7, time.UTC)

	assert.Equal(t, 4, st.TotalSessions)
	assert.Equal(t, 150, st.TotalMinutes)
	assert.InDelta(t, 37.5, st.AverageSessionMinutes, 0.001)
	assert.InDelta(t, 0.75, st.AIRecommendedShare, 0.001)
	assert.Equal(t, 1, st.BreakSessions)
	assert.Equal(t, 2, st.QuizAttempts)
	assert.InDelta(t, 0.8, st.QuizAccuracy, 0.001)

	require.Len(t, st.Days, 7)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), st.Days[0].Date)
	assert.Equal(t, 50, st.Days[6].Minutes)
	assert.Equal(t, 2, st.Days[6].Sessions)
	assert.Equal(t, 40, st.Days[5].Minutes)
	assert.Equal(t, 0, st.Days[0].Minutes)

	require.NotNil(t, st.BestDay)
	assert.Equal(t, 60, st.BestDay.Minutes)
	assert.Equal(t, 1, st.BestDay.Date.Day())
}

func TestComputeEmpty(t *testing.T) {
	st := Compute(nil, nil, now, 0, nil)
	if len(st.Days) != DefaultDays {
		t.Errorf("len(Days) = %d, want %d", len(st.Days), DefaultDays)
	}
	if st.BestDay != nil || st.AverageSessionMinutes != 0 || st.QuizAccuracy != 0 {
		t.Errorf("Compute(empty) = %+v", st)
	}
}

func TestComputeBucketsByLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 02:00 UTC on the 10th is still the 9th at UTC-5.
	s := study(10, 30, false)
	s.UpdatedAt = time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)

	st := Compute([]store.SessionRecord{s}, nil, now, 2, loc)
	assert.Equal(t, 30, st.Days[0].Minutes)
	assert.Equal(t, 0, st.Days[1].Minutes)
}

func TestServiceStats(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "analytics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	for _, rec := range []store.SessionRecord{
		{SessionID: "a", UserID: "local", Mode: "study", ElapsedSecs: 1500, Completed: true, AIRecommended: true},
		{SessionID: "b", UserID: "local", Mode: "study", ElapsedSecs: 900},
		{SessionID: "c", UserID: "other", Mode: "study", ElapsedSecs: 3000, Completed: true},
	} {
		require.NoError(t, s.SessionRepo().UpsertSession(ctx, rec))
	}
	require.NoError(t, s.EventRepo().AppendQuizAttempt(ctx, store.QuizAttemptData{QuizID: "q", UserID: "local", QuestionCount: 4, Score: 3}))

	svc := NewService(s.SessionRepo(), s.EventRepo())
	st, err := svc.Stats(ctx, "local", 7)
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalSessions)
	assert.Equal(t, 25, st.TotalMinutes)
	assert.Equal(t, 25, st.Days[6].Minutes)
	assert.InDelta(t, 0.75, st.QuizAccuracy, 0.001)

	hist, err := svc.History(ctx, "local", 10)
	require.NoError(t, err)
	assert.Len(t, hist, 2)
}
