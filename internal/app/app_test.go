package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studydesk/internal/screens/focus"
	"github.com/abhisek/studydesk/internal/settings"
	"github.com/abhisek/studydesk/internal/timer"
)

func newModel(t *testing.T) AppModel {
	t.Helper()
	return newAppModel(context.Background(), Options{Settings: settings.NewMemory(settings.Defaults())})
}

func TestFocusEventsReachCoveredTimer(t *testing.T) {
	m := newModel(t)
	require.Equal(t, "Home", m.router.Active().Title())

	next, _ := m.Update(focus.MaterialChosenMsg{Material: timer.Material{ID: "m1", Name: "Cells"}})
	m = next.(AppModel)

	mat, ok := m.focus.Machine().Material()
	require.True(t, ok)
	assert.Equal(t, "Cells", mat.Name)
	assert.Equal(t, "Home", m.router.Active().Title())
}

func TestSettingsChangeReachesTimer(t *testing.T) {
	m := newModel(t)
	s := settings.Defaults()
	s.LongBreakMinutes = 30
	m.Update(focus.SettingsChangedMsg{Settings: s})
	assert.Equal(t, 30*60, m.focus.Machine().CanonicalSeconds(timer.LongBreak))
}

func TestHeaderShowsRunningClock(t *testing.T) {
	m := newModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(AppModel)
	m.Update(focus.MaterialChosenMsg{Material: timer.Material{ID: "m1", Name: "Cells"}})

	assert.Empty(t, m.headerStats().Running)
	_, err := m.focus.Machine().Start()
	require.NoError(t, err)
	assert.Equal(t, "25:00", m.headerStats().Running)
	assert.Equal(t, 100, m.width)
}

func TestCtrlCQuits(t *testing.T) {
	m := newModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestHomeStatus(t *testing.T) {
	m := newModel(t)
	st := homeStatus(m.focus.Machine())
	assert.Equal(t, "Study", st.Mode)
	assert.False(t, st.Running)
	assert.False(t, st.OnBreak)
}
