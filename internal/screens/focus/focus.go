// Package focus is the timer screen: mode tabs, the countdown, progress
// and the recommendation insight. It drives a timer.Machine from Bubble
// Tea messages; ticks are tea.Tick messages tagged with the machine epoch
// they were scheduled for.
package focus

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydesk/internal/achievements"
	"github.com/abhisek/studydesk/internal/materials"
	"github.com/abhisek/studydesk/internal/persist"
	"github.com/abhisek/studydesk/internal/recommend"
	"github.com/abhisek/studydesk/internal/router"
	"github.com/abhisek/studydesk/internal/screen"
	"github.com/abhisek/studydesk/internal/screens/picker"
	"github.com/abhisek/studydesk/internal/timer"
	"github.com/abhisek/studydesk/internal/ui/layout"
)

// Deps are the collaborators of the timer screen. Achievements, Materials
// and Notifier may be nil.
type Deps struct {
	Recommender  recommend.Recommender
	Saver        *timer.Saver
	Notifier     timer.Notifier
	Achievements *achievements.Service
	Materials    *materials.Service
	UserID       string
}

// Screen is the timer screen. One instance lives for the whole program.
type Screen struct {
	m       *timer.Machine
	deps    Deps
	ctx     context.Context
	initial []timer.Effect
	started bool

	banner string
	errMsg string
	awards []achievements.Award
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the screen for m. initial are the effects returned by
// timer.New; they run on the first Init.
func New(ctx context.Context, m *timer.Machine, initial []timer.Effect, deps Deps) *Screen {
	if deps.Recommender == nil {
		deps.Recommender = recommend.Algorithm{}
	}
	return &Screen{m: m, deps: deps, ctx: ctx, initial: initial}
}

// Machine exposes the timer for read-only use, e.g. by the header.
func (s *Screen) Machine() *timer.Machine {
	return s.m
}

func (s *Screen) Init() tea.Cmd {
	if s.started {
		return nil
	}
	s.started = true
	return s.exec(s.initial)
}

func (s *Screen) Title() string {
	return "Focus"
}

// ErrNoMaterialChosen is shown when the material picker closes without a
// choice while a study session still needs one.
var ErrNoMaterialChosen = errors.New("no material selected; press M to choose one")

// Resume runs when a screen pushed from the timer closes. A chosen
// material arrives afterwards as MaterialChosenMsg and clears the error.
func (s *Screen) Resume() tea.Cmd {
	if _, ok := s.m.Material(); !ok && s.deps.Materials != nil && s.m.Mode() == timer.Study {
		s.setErr(ErrNoMaterialChosen)
	}
	return nil
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if _, ok := s.m.PendingSwitch(); ok {
		return []layout.KeyHint{
			{Key: "Y", Description: "Switch"},
			{Key: "N", Description: "Stay"},
		}
	}
	startLabel := "Start"
	if s.m.State() == timer.Running {
		startLabel = "Pause"
	}
	return []layout.KeyHint{
		{Key: "Space", Description: startLabel},
		{Key: "R", Description: "Reset"},
		{Key: "S", Description: "Skip"},
		{Key: "1-3", Description: "Mode"},
		{Key: "M", Description: "Material"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s, s.exec(s.m.Tick(msg.epoch))

	case autoStartMsg:
		return s, s.exec(s.m.Fire(msg.epoch))

	case recommendationMsg:
		if msg.err != nil {
			slog.Warn("recommendation failed, using default duration", "error", msg.err)
		}
		s.m.ApplyRecommendation(msg.seq, msg.res, msg.err)
		return s, nil

	case awardsMsg:
		if msg.err != nil {
			slog.Warn("achievement check failed", "error", msg.err)
		}
		s.awards = msg.awards
		return s, nil

	case MaterialChosenMsg:
		effs, err := s.m.SelectMaterial(msg.Material)
		s.setErr(err)
		return s, s.exec(effs)

	case SettingsChangedMsg:
		s.m.UpdateSettings(msg.Settings)
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg.String())
	}
	return s, nil
}

func (s *Screen) handleKey(key string) (screen.Screen, tea.Cmd) {
	if _, ok := s.m.PendingSwitch(); ok {
		switch key {
		case "y", "Y", "enter":
			effs, err := s.m.ConfirmSwitch()
			s.setErr(err)
			return s, s.exec(effs)
		case "n", "N", "esc":
			s.m.CancelSwitch()
		}
		return s, nil
	}

	s.errMsg = ""
	switch key {
	case "space", " ", "enter":
		if s.m.State() == timer.Running {
			s.m.Pause()
			return s, nil
		}
		return s.start()
	case "p":
		s.m.Pause()
	case "r":
		s.awards = nil
		return s, s.exec(s.m.Reset())
	case "s":
		return s, s.exec(s.m.Skip())
	case "1", "2", "3":
		return s.requestSwitch(timer.Modes[key[0]-'1'])
	case "tab":
		next := timer.Modes[0]
		for i, mode := range timer.Modes {
			if mode == s.m.Mode() {
				next = timer.Modes[(i+1)%len(timer.Modes)]
			}
		}
		return s.requestSwitch(next)
	case "m":
		if s.m.State() == timer.Running {
			s.setErr(timer.ErrMaterialLocked)
			return s, nil
		}
		return s, s.pickMaterial()
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *Screen) start() (screen.Screen, tea.Cmd) {
	effs, err := s.m.Start()
	if errors.Is(err, timer.ErrMaterialRequired) && s.deps.Materials != nil {
		s.setErr(err)
		return s, s.pickMaterial()
	}
	s.setErr(err)
	if err == nil {
		s.banner = ""
		s.awards = nil
	}
	return s, s.exec(effs)
}

func (s *Screen) requestSwitch(mode timer.Mode) (screen.Screen, tea.Cmd) {
	effs, err := s.m.RequestSwitch(mode)
	s.setErr(err)
	return s, s.exec(effs)
}

func (s *Screen) setErr(err error) {
	if err != nil {
		s.errMsg = err.Error()
	} else {
		s.errMsg = ""
	}
}

func (s *Screen) pickMaterial() tea.Cmd {
	if s.deps.Materials == nil {
		return nil
	}
	p := picker.New(s.deps.Materials, s.deps.UserID, "Choose study material", func(f materials.File) tea.Msg {
		return MaterialChosenMsg{Material: f.Material()}
	})
	return func() tea.Msg { return router.PushScreenMsg{Screen: p} }
}

// exec turns machine effects into commands. Saves are handed to the
// ordered saver directly; everything that waits becomes a command.
func (s *Screen) exec(effs []timer.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effs {
		switch e := e.(type) {
		case timer.ScheduleTick:
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg { return tickMsg{epoch: e.Epoch} }))
		case timer.ScheduleAutoStart:
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg { return autoStartMsg{epoch: e.Epoch} }))
		case timer.RequestRecommendation:
			rec, ctx := s.deps.Recommender, s.ctx
			cmds = append(cmds, func() tea.Msg {
				res, err := rec.Recommend(ctx, e.Input)
				return recommendationMsg{seq: e.Seq, res: res, err: err}
			})
		case timer.SaveCheckpoint:
			s.save(e.Record)
		case timer.SaveCompleted:
			s.save(e.Record)
		case timer.Notify:
			s.banner = e.Title + " " + e.Body
			if n := s.deps.Notifier; n != nil {
				cmds = append(cmds, func() tea.Msg {
					if err := n.Notify(e.Title, e.Body, e.Sound, e.Desktop); err != nil {
						slog.Warn("notification failed", "error", err)
					}
					return nil
				})
			}
		case timer.SessionDiscarded:
			slog.Info("session discarded",
				"session_id", e.Session.ID,
				"mode", e.Session.Mode,
				"elapsed_seconds", e.Session.ElapsedSeconds)
		case timer.SessionCompleted:
			slog.Info("session completed",
				"session_id", e.Session.ID,
				"mode", e.Session.Mode,
				"elapsed_seconds", e.Session.ElapsedSeconds,
				"skipped", e.Skipped)
			if e.Session.Mode == timer.Study {
				cmds = append(cmds, s.checkAchievements(e))
			}
		case timer.PromptMaterial:
			cmds = append(cmds, s.pickMaterial())
		}
	}
	return tea.Batch(cmds...)
}

func (s *Screen) save(rec persist.Record) {
	if s.deps.Saver != nil {
		s.deps.Saver.Save(rec)
	}
}

func (s *Screen) checkAchievements(e timer.SessionCompleted) tea.Cmd {
	svc := s.deps.Achievements
	if svc == nil {
		return nil
	}
	ctx := s.ctx
	ev := achievements.StudyEvent{
		SessionID:      e.Session.ID,
		ElapsedSeconds: e.Session.ElapsedSeconds,
		Streak:         e.Aggregate.Streak,
	}
	return func() tea.Msg {
		awards, err := svc.OnStudyCompleted(ctx, ev)
		return awardsMsg{awards: awards, err: err}
	}
}
