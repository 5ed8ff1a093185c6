// Package picker is a modal screen listing the user's study files. It
// also lets the user import a text or markdown file by path.
package picker

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/materials"
	"github.com/abhisek/studydesk/internal/router"
	"github.com/abhisek/studydesk/internal/screen"
	"github.com/abhisek/studydesk/internal/ui/components"
	"github.com/abhisek/studydesk/internal/ui/layout"
	"github.com/abhisek/studydesk/internal/ui/theme"
)

type filesLoadedMsg struct {
	files []materials.File
	err   error
}

type fileAddedMsg struct {
	file materials.File
	err  error
}

// Screen lists files and reports the chosen one through onPick.
type Screen struct {
	svc    *materials.Service
	userID string
	title  string
	onPick func(materials.File) tea.Msg

	files   []materials.File
	cursor  int
	loading bool
	adding  bool
	input   components.TextInput
	errMsg  string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a picker. onPick builds the message sent after the picker
// has been popped.
func New(svc *materials.Service, userID, title string, onPick func(materials.File) tea.Msg) *Screen {
	return &Screen{
		svc:     svc,
		userID:  userID,
		title:   title,
		onPick:  onPick,
		loading: true,
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.load()
}

func (s *Screen) Title() string {
	return s.title
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.adding {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Import"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Choose"},
		{Key: "A", Description: "Add file"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) load() tea.Cmd {
	svc, userID := s.svc, s.userID
	return func() tea.Msg {
		files, err := svc.Files(context.Background(), userID)
		return filesLoadedMsg{files: files, err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case filesLoadedMsg:
		s.loading = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.files = msg.files
		if s.cursor >= len(s.files) {
			s.cursor = max(len(s.files)-1, 0)
		}
		return s, nil

	case fileAddedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.adding = false
		s.errMsg = ""
		s.files = append(s.files, msg.file)
		s.cursor = len(s.files) - 1
		return s, nil

	case tea.KeyMsg:
		if s.adding {
			return s.updateAdding(msg)
		}
		return s.handleKey(msg.String())
	}

	if s.adding {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.files)-1 {
			s.cursor++
		}
	case "enter":
		if s.cursor < len(s.files) {
			f := s.files[s.cursor]
			onPick := s.onPick
			return s, tea.Sequence(
				func() tea.Msg { return router.PopScreenMsg{} },
				func() tea.Msg { return onPick(f) },
			)
		}
	case "a":
		s.adding = true
		s.errMsg = ""
		s.input = components.NewTextInput("path/to/notes.md", nil, 0)
		return s, s.input.Init()
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *Screen) updateAdding(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.adding = false
		s.errMsg = ""
		return s, nil
	case "enter":
		path := strings.TrimSpace(s.input.Value())
		if path == "" {
			return s, nil
		}
		svc, userID := s.svc, s.userID
		return s, func() tea.Msg {
			f, err := svc.AddFile(context.Background(), userID, materials.AddFileInput{Path: path})
			return fileAddedMsg{file: f, err: err}
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(components.Centered(theme.Title.Render(s.title), width))
	b.WriteString("\n\n")

	var body string
	switch {
	case s.adding:
		body = theme.Body.Render("Import a .txt or .md file") + "\n\n" + s.input.View()
	case s.loading:
		body = theme.Hint.Render("Loading materials...")
	case len(s.files) == 0:
		body = theme.Hint.Render("No materials yet. Press A to add a file.")
	default:
		body = s.renderList(cw, height-8)
	}
	b.WriteString(components.Centered(components.Card(body, cw), width))

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(components.Centered(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg), width))
	}
	return b.String()
}

// renderList shows a window of rows around the cursor.
func (s *Screen) renderList(cw, rows int) string {
	if rows < 3 {
		rows = 3
	}
	start := 0
	if s.cursor >= rows {
		start = s.cursor - rows + 1
	}
	end := min(start+rows, len(s.files))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		f := s.files[i]
		subject := lipgloss.NewStyle().Foreground(theme.TextDim).Render(f.Subject)
		if i == s.cursor {
			lines = append(lines, fmt.Sprintf("%s  %s", theme.Selected.Render("▸ "+f.Name), subject))
		} else {
			lines = append(lines, fmt.Sprintf("  %s  %s", f.Name, subject))
		}
	}
	return lipgloss.NewStyle().Width(cw - 8).Align(lipgloss.Left).Render(strings.Join(lines, "\n"))
}
