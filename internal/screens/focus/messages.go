package focus

import (
	"github.com/abhisek/studydesk/internal/achievements"
	"github.com/abhisek/studydesk/internal/recommend"
	"github.com/abhisek/studydesk/internal/settings"
	"github.com/abhisek/studydesk/internal/timer"
)

// Event is implemented by messages addressed to the timer. The app
// delivers them to the timer screen even while another screen is on top,
// so the countdown keeps running in the background.
type Event interface {
	focusEvent()
}

type tickMsg struct{ epoch uint64 }

type autoStartMsg struct{ epoch uint64 }

type recommendationMsg struct {
	seq uint64
	res recommend.Result
	err error
}

type awardsMsg struct {
	awards []achievements.Award
	err    error
}

// MaterialChosenMsg selects the material for the study session.
type MaterialChosenMsg struct {
	Material timer.Material
}

// SettingsChangedMsg carries settings committed elsewhere in the app.
type SettingsChangedMsg struct {
	Settings settings.Settings
}

func (tickMsg) focusEvent()            {}
func (autoStartMsg) focusEvent()       {}
func (recommendationMsg) focusEvent()  {}
func (awardsMsg) focusEvent()          {}
func (MaterialChosenMsg) focusEvent()  {}
func (SettingsChangedMsg) focusEvent() {}
