package timer

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/studydesk/internal/recommend"
)

// Mode is the kind of session the timer runs.
type Mode string

const (
	Study      Mode = "study"
	ShortBreak Mode = "short_break"
	LongBreak  Mode = "long_break"
)

// Modes lists every mode in display order.
var Modes = []Mode{Study, ShortBreak, LongBreak}

// IsBreak reports whether m is a break mode.
func (m Mode) IsBreak() bool {
	return m == ShortBreak || m == LongBreak
}

// Label returns the display name of the mode.
func (m Mode) Label() string {
	switch m {
	case Study:
		return "Study"
	case ShortBreak:
		return "Short Break"
	case LongBreak:
		return "Long Break"
	}
	return string(m)
}

// ParseMode accepts the stored value or a short alias ("short", "long").
func ParseMode(s string) (Mode, error) {
	switch s {
	case "study":
		return Study, nil
	case "short_break", "short", "break":
		return ShortBreak, nil
	case "long_break", "long":
		return LongBreak, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// RunState is the run state within the current mode.
type RunState int

const (
	Idle RunState = iota
	Running
	Paused
	// Completing is held only while a completion is being resolved; no
	// operation observes it from outside the machine.
	Completing
)

func (s RunState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completing:
		return "completing"
	}
	return "unknown"
}

// User-action rejections. The machine state is unchanged when one of these
// is returned.
var (
	ErrBreakLocked        = errors.New("complete a study session before taking a break")
	ErrSwitchWhileRunning = errors.New("pause the timer before switching modes")
	ErrMaterialRequired   = errors.New("select study material before starting")
	ErrMaterialLocked     = errors.New("pause the timer before changing material")
	ErrNoPendingSwitch    = errors.New("no mode switch is pending")
)

// Session is the session currently loaded in the timer.
type Session struct {
	ID             string
	Mode           Mode
	PlannedSeconds int
	ElapsedSeconds int
	StartedAt      *time.Time
	MaterialID     string
	AIRecommended  bool
}

// Remaining returns the seconds left, never negative.
func (s Session) Remaining() int {
	if r := s.PlannedSeconds - s.ElapsedSeconds; r > 0 {
		return r
	}
	return 0
}

// Material is the study content a Study session is tied to.
type Material struct {
	ID      string
	Name    string
	Subject string
}

// DailyAggregate accumulates study totals for the life of the process.
// There is no day rollover: a new process starts a new day.
type DailyAggregate struct {
	TotalStudySeconds int
	CompletedSessions int
	Streak            int
}

// RecommendationInput builds the recommender input for the given time.
func (a DailyAggregate) RecommendationInput(now time.Time) recommend.Input {
	return recommend.NewInput(a.TotalStudySeconds, a.CompletedSessions, now.Hour())
}
