package settings

import (
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/abhisek/studydesk/internal/settings"
)

func run(t *testing.T, s *Screen, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	s.Update(cmd())
}

func cursorTo(t *testing.T, s *Screen, key string) {
	t.Helper()
	for i, f := range cfg.Fields {
		if f.Key == key {
			s.cursor = i
			return
		}
	}
	t.Fatalf("no field %q", key)
}

func TestToggleBoolPersistsAndNotifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	store := cfg.Open(path)
	var got []cfg.Settings
	store.Subscribe(func(s cfg.Settings) { got = append(got, s) })

	s := New(store)
	cursorTo(t, s, "autoStartBreak")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	run(t, s, cmd)

	assert.False(t, store.Get().AutoStartBreak)
	require.Len(t, got, 1)
	assert.False(t, got[0].AutoStartBreak)
	assert.Equal(t, "Saved autoStartBreak", s.status)

	loaded, err := cfg.Load(path)
	require.NoError(t, err)
	assert.False(t, loaded.AutoStartBreak)
}

func TestCycleEnum(t *testing.T) {
	store := cfg.NewMemory(cfg.Defaults())
	s := New(store)
	cursorTo(t, s, "defaultPaperStyle")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	run(t, s, cmd)
	assert.Equal(t, "lined", store.Get().DefaultPaperStyle)
}

func TestEditNumber(t *testing.T) {
	store := cfg.NewMemory(cfg.Defaults())
	s := New(store)
	cursorTo(t, s, "shortBreakMinutes")

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.True(t, s.editing)

	// Letters are dropped by the numeric input.
	for _, r := range "1x2" {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	assert.Equal(t, "12", s.input.Value())

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.False(t, s.editing)
	run(t, s, cmd)
	assert.Equal(t, 12, store.Get().ShortBreakMinutes)
	assert.Contains(t, s.View(100, 30), "12")
}

func TestEditNumberRejectsZero(t *testing.T) {
	store := cfg.NewMemory(cfg.Defaults())
	s := New(store)
	cursorTo(t, s, "longBreakInterval")

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(tea.KeyPressMsg{Code: '0', Text: "0"})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.True(t, s.editing)
	assert.Contains(t, s.errMsg, "positive integer")
	assert.Equal(t, 4, store.Get().LongBreakInterval)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.False(t, s.editing)
}

func TestNavigationBounds(t *testing.T) {
	s := New(cfg.NewMemory(cfg.Defaults()))
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.cursor != 0 {
		t.Errorf("cursor = %d, want 0", s.cursor)
	}
	for range cfg.Fields {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if s.cursor != len(cfg.Fields)-1 {
		t.Errorf("cursor = %d, want %d", s.cursor, len(cfg.Fields)-1)
	}
}
