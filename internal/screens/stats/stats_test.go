package stats

import (
	"context"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studydesk/internal/achievements"
	"github.com/abhisek/studydesk/internal/analytics"
	"github.com/abhisek/studydesk/internal/store"
)

func newScreen(t *testing.T, seed func(*store.Store)) *Screen {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	if seed != nil {
		seed(st)
	}
	s := New(
		analytics.NewService(st.SessionRepo(), st.EventRepo()),
		achievements.NewService(st.EventRepo(), st.SessionRepo()),
		"local",
	)
	s.Update(s.Init()())
	return s
}

func TestEmptyStats(t *testing.T) {
	s := newScreen(t, nil)
	require.True(t, s.loaded)
	assert.Empty(t, s.errMsg)
	assert.Contains(t, s.View(100, 30), "Sessions: 0")

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Contains(t, s.View(100, 30), "No sessions yet")
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Contains(t, s.View(100, 30), "No achievements yet")
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if s.tab != tabOverview {
		t.Errorf("tab = %d, want overview after wrapping", s.tab)
	}
}

func TestStatsWithData(t *testing.T) {
	ctx := context.Background()
	s := newScreen(t, func(st *store.Store) {
		require.NoError(t, st.SessionRepo().UpsertSession(ctx, store.SessionRecord{
			SessionID: "a", UserID: "local", Mode: "study", PlannedSecs: 1500, ElapsedSecs: 1500, Completed: true, AIRecommended: true,
		}))
		require.NoError(t, st.SessionRepo().UpsertSession(ctx, store.SessionRecord{
			SessionID: "b", UserID: "local", Mode: "short_break", PlannedSecs: 300, ElapsedSecs: 120,
		}))
		svc := achievements.NewService(st.EventRepo(), st.SessionRepo())
		_, err := svc.OnStudyCompleted(ctx, achievements.StudyEvent{SessionID: "a", ElapsedSeconds: 1500, Streak: 1})
		require.NoError(t, err)
	})

	assert.Equal(t, 1, s.stats.TotalSessions)
	assert.Equal(t, 25, s.stats.TotalMinutes)
	assert.Contains(t, s.View(100, 30), "Best day")

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	require.Len(t, s.history, 2)
	view := s.View(100, 30)
	assert.Contains(t, view, "Study")
	assert.Contains(t, view, "Short Break")

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.scroll != 1 {
		t.Errorf("scroll = %d, want 1", s.scroll)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, 0, s.scroll)
	assert.Equal(t, 1, s.total)
	assert.Contains(t, s.View(100, 30), "First Focus")
}

func TestEscPops(t *testing.T) {
	s := newScreen(t, nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.NotNil(t, cmd())
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 00m"},
		{135, "2h 15m"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.in); got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
