// Package home is the landing screen: today's progress and the main menu.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydesk/internal/router"
	"github.com/abhisek/studydesk/internal/screen"
	"github.com/abhisek/studydesk/internal/ui/components"
	"github.com/abhisek/studydesk/internal/ui/layout"
)

// Status is the live summary shown on the home screen.
type Status struct {
	Sessions int
	Minutes  int
	Streak   int
	Mode     string
	Running  bool
	OnBreak  bool
	Material string
}

// Routes builds the screens the menu opens. A nil route disables its
// entry.
type Routes struct {
	Focus     func() screen.Screen
	Quiz      func() screen.Screen
	Materials func() screen.Screen
	Stats     func() screen.Screen
	Settings  func() screen.Screen
}

// HomeScreen is the main menu.
type HomeScreen struct {
	menu       components.Menu
	menuLabels []string
	disabled   map[int]bool
	status     func() Status
	llmReady   bool
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen. status is read on every render.
func New(routes Routes, status func() Status, llmReady bool) *HomeScreen {
	if status == nil {
		status = func() Status { return Status{} }
	}
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			s := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}

	entries := []struct {
		label, key string
		route      func() screen.Screen
	}{
		{"FOCUS TIMER", "f", routes.Focus},
		{"PRACTICE QUIZ", "q", routes.Quiz},
		{"MATERIALS", "m", routes.Materials},
		{"STATS", "s", routes.Stats},
		{"SETTINGS", ",", routes.Settings},
	}

	var items []components.MenuItem
	var labels []string
	disabled := make(map[int]bool)
	for i, e := range entries {
		item := components.MenuItem{Label: e.label, Key: e.key, Disabled: e.route == nil}
		if e.route != nil {
			item.Action = push(e.route)
		}
		disabled[i] = item.Disabled
		items = append(items, item)
		labels = append(labels, e.label)
	}
	items = append(items, components.MenuItem{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }})
	labels = append(labels, "QUIT")

	return &HomeScreen{
		menu:       components.NewMenu(items),
		menuLabels: labels,
		disabled:   disabled,
		status:     status,
		llmReady:   llmReady,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "F/Q/M/S", Description: "Jump"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer.
	termHeight := height + layout.HeaderHeight + layout.FooterHeight
	compact := layout.IsCompactHeight(termHeight) || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)
	st := h.status()

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(mascotFor(st), cw))
	}
	sections = append(sections, renderStatusBar(st, cw, compact))
	if compact {
		sections = append(sections, renderMenuCompact(h.menuLabels, h.menu.Selected, cw, h.disabled))
	} else {
		sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw, h.disabled))
	}
	if !h.llmReady {
		sections = append(sections, renderLLMBanner(cw))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}
