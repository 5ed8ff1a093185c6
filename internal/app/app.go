// Package app wires the screens into the root Bubble Tea model.
package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/achievements"
	"github.com/abhisek/studydesk/internal/analytics"
	"github.com/abhisek/studydesk/internal/materials"
	"github.com/abhisek/studydesk/internal/persist"
	"github.com/abhisek/studydesk/internal/practice"
	"github.com/abhisek/studydesk/internal/recommend"
	"github.com/abhisek/studydesk/internal/router"
	"github.com/abhisek/studydesk/internal/screen"
	"github.com/abhisek/studydesk/internal/screens/focus"
	"github.com/abhisek/studydesk/internal/screens/home"
	"github.com/abhisek/studydesk/internal/screens/picker"
	quizscreen "github.com/abhisek/studydesk/internal/screens/quiz"
	settingsscreen "github.com/abhisek/studydesk/internal/screens/settings"
	"github.com/abhisek/studydesk/internal/screens/stats"
	"github.com/abhisek/studydesk/internal/settings"
	"github.com/abhisek/studydesk/internal/store"
	"github.com/abhisek/studydesk/internal/timer"
	"github.com/abhisek/studydesk/internal/ui/components"
	"github.com/abhisek/studydesk/internal/ui/layout"
)

// Options are the collaborators of the TUI. Everything but Settings may
// be nil; the screens that need a missing collaborator are disabled.
type Options struct {
	Settings     *settings.Store
	Recommender  recommend.Recommender
	Saver        *timer.Saver
	Notifier     timer.Notifier
	Materials    *materials.Service
	Generator    practice.Generator
	Events       store.EventRepo
	Achievements *achievements.Service
	Analytics    *analytics.Service
	UserID       string

	QuizCount int
	QuizType  practice.QuestionType
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	focus  *focus.Screen
	width  int
	height int
}

func newAppModel(ctx context.Context, opts Options) AppModel {
	if opts.UserID == "" {
		opts.UserID = persist.LocalUserID
	}
	m, initial := timer.New(timer.Config{Settings: opts.Settings.Get(), UserID: opts.UserID})
	focusScreen := focus.New(ctx, m, initial, focus.Deps{
		Recommender:  opts.Recommender,
		Saver:        opts.Saver,
		Notifier:     opts.Notifier,
		Achievements: opts.Achievements,
		Materials:    opts.Materials,
		UserID:       opts.UserID,
	})

	routes := home.Routes{
		Focus:    func() screen.Screen { return focusScreen },
		Settings: func() screen.Screen { return settingsscreen.New(opts.Settings) },
	}
	if opts.Materials != nil {
		routes.Materials = func() screen.Screen {
			return picker.New(opts.Materials, opts.UserID, "Study materials", func(f materials.File) tea.Msg {
				return focus.MaterialChosenMsg{Material: f.Material()}
			})
		}
		if opts.Generator != nil {
			routes.Quiz = func() screen.Screen {
				return quizscreen.New(ctx, quizscreen.Deps{
					Generator:    opts.Generator,
					Materials:    opts.Materials,
					Events:       opts.Events,
					Achievements: opts.Achievements,
					UserID:       opts.UserID,
					Count:        opts.QuizCount,
					Type:         opts.QuizType,
				})
			}
		}
	}
	if opts.Analytics != nil {
		routes.Stats = func() screen.Screen {
			return stats.New(opts.Analytics, opts.Achievements, opts.UserID)
		}
	}

	homeScreen := home.New(routes, func() home.Status { return homeStatus(m) }, opts.Generator != nil)
	return AppModel{
		router: router.New(homeScreen),
		focus:  focusScreen,
	}
}

func homeStatus(m *timer.Machine) home.Status {
	agg := m.Aggregate()
	st := home.Status{
		Sessions: agg.CompletedSessions,
		Minutes:  agg.TotalStudySeconds / 60,
		Streak:   agg.Streak,
		Mode:     m.Mode().Label(),
		Running:  m.State() == timer.Running,
		OnBreak:  m.Mode().IsBreak(),
	}
	if mat, ok := m.Material(); ok {
		st.Material = mat.Name
	}
	return st
}

// Init starts the timer screen so the first recommendation is requested
// while the user is still on the home screen.
func (m AppModel) Init() tea.Cmd {
	return m.focus.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case focus.Event:
		return m, m.router.Deliver(m.focus, msg)
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.headerStats(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) headerStats() layout.HeaderStats {
	tm := m.focus.Machine()
	agg := tm.Aggregate()
	st := layout.HeaderStats{
		Sessions: agg.CompletedSessions,
		Minutes:  agg.TotalStudySeconds / 60,
		Streak:   agg.Streak,
	}
	if tm.State() == timer.Running {
		st.Running = components.FormatClock(tm.Remaining())
	}
	return st
}

// Run starts the Bubble Tea program and blocks until it exits. Settings
// committed anywhere in the process reach the timer screen.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	opts.Settings.Subscribe(func(s settings.Settings) {
		p.Send(focus.SettingsChangedMsg{Settings: s})
	})
	_, err := p.Run()
	if err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
