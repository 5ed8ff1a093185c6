// Package settings is the preferences screen. Bool and enum values are
// cycled in place; numbers are typed in.
package settings

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/router"
	"github.com/abhisek/studydesk/internal/screen"
	cfg "github.com/abhisek/studydesk/internal/settings"
	"github.com/abhisek/studydesk/internal/ui/components"
	"github.com/abhisek/studydesk/internal/ui/layout"
	"github.com/abhisek/studydesk/internal/ui/theme"
)

type savedMsg struct {
	key string
	err error
}

// Screen edits the settings store.
type Screen struct {
	store   *cfg.Store
	cursor  int
	editing bool
	input   components.TextInput
	status  string
	errMsg  string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the settings screen over store.
func New(store *cfg.Store) *Screen {
	return &Screen{store: store}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Settings"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter/Space", Description: "Change"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			s.status = ""
		} else {
			s.errMsg = ""
			s.status = "Saved " + msg.key
		}
		return s, nil

	case tea.KeyMsg:
		if s.editing {
			return s.updateEditing(msg)
		}
		return s.handleKey(msg.String())
	}

	if s.editing {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(cfg.Fields)-1 {
			s.cursor++
		}
	case "enter", "space", " ":
		f := cfg.Fields[s.cursor]
		if next, ok := f.Next(s.store.Get()); ok {
			return s, s.save(f.Key, next)
		}
		s.editing = true
		s.errMsg = ""
		s.input = components.NewTextInput(f.Value(s.store.Get()), components.Digits, 3)
		return s, s.input.Init()
	}
	return s, nil
}

func (s *Screen) updateEditing(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.editing = false
		return s, nil
	case "enter":
		value := strings.TrimSpace(s.input.Value())
		if value == "" {
			s.editing = false
			return s, nil
		}
		key := cfg.Fields[s.cursor].Key
		probe := s.store.Get()
		if err := cfg.Set(&probe, key, value); err != nil {
			s.input.Reject()
			s.errMsg = err.Error()
			return s, nil
		}
		s.editing = false
		return s, s.save(key, value)
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// save commits off the update loop: subscribers forward the change into
// the program, which would block if sent from inside Update.
func (s *Screen) save(key, value string) tea.Cmd {
	store := s.store
	return func() tea.Msg {
		var setErr error
		err := store.Update(func(st *cfg.Settings) {
			setErr = cfg.Set(st, key, value)
		})
		if setErr != nil {
			err = setErr
		}
		return savedMsg{key: key, err: err}
	}
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	cur := s.store.Get()

	keyWidth := 0
	for _, f := range cfg.Fields {
		keyWidth = max(keyWidth, len(f.Key))
	}

	lines := make([]string, 0, len(cfg.Fields))
	for i, f := range cfg.Fields {
		value := f.Value(cur)
		if i == s.cursor && s.editing {
			value = s.input.View()
		}
		prefix := "  "
		keyStyle := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.cursor {
			prefix = "▸ "
			keyStyle = theme.Selected
		}
		lines = append(lines, fmt.Sprintf("%s  %s",
			keyStyle.Render(prefix+padRight(f.Key, keyWidth)),
			lipgloss.NewStyle().Foreground(theme.Secondary).Render(value)))
	}
	list := lipgloss.NewStyle().Align(lipgloss.Left).Render(strings.Join(lines, "\n"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(components.Centered(components.Card(list, cw), width))
	b.WriteString("\n\n")
	b.WriteString(components.Centered(theme.Hint.Render(cfg.Fields[s.cursor].Help), width))
	if path := s.store.Path(); path != "" {
		b.WriteString("\n")
		b.WriteString(components.Centered(lipgloss.NewStyle().Foreground(theme.TextDim).Render(path), width))
	}
	switch {
	case s.errMsg != "":
		b.WriteString("\n\n")
		b.WriteString(components.Centered(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg), width))
	case s.status != "":
		b.WriteString("\n\n")
		b.WriteString(components.Centered(lipgloss.NewStyle().Foreground(theme.Success).Render(s.status), width))
	}
	return b.String()
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
