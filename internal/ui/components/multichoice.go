package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D", "E", "F"}

// MultiChoice is a multiple-choice selector. It only tracks the cursor;
// once the answer is known, Reveal switches it to the graded view.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Selected     int
	Revealed     bool
	ChosenIndex  int // -1 when the question timed out
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
	}
}

// Update moves the cursor. Choosing is left to the owner.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Revealed {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	}
	return m, nil
}

// OptionForKey maps "a".."f" and "1".."6" to an option index.
func (m MultiChoice) OptionForKey(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	var i int
	switch c := key[0]; {
	case c >= 'a' && c <= 'f':
		i = int(c - 'a')
	case c >= 'A' && c <= 'F':
		i = int(c - 'A')
	case c >= '1' && c <= '6':
		i = int(c - '1')
	default:
		return 0, false
	}
	return i, i < len(m.Options)
}

// Reveal marks the chosen option (nil for a timeout) and shows the
// correct answer.
func (m *MultiChoice) Reveal(chosen *int) {
	m.Revealed = true
	m.ChosenIndex = -1
	if chosen != nil {
		m.ChosenIndex = *chosen
	}
}

// View renders the question and options.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		label := optionLabels[i%len(optionLabels)]
		prefix := "  "
		if i == m.Selected && !m.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Revealed && i == m.CorrectIndex:
			style = theme.Correct
		case m.Revealed && i == m.ChosenIndex:
			style = theme.Incorrect
		case m.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		}
		s += style.Render(line) + "\n"
	}
	return s
}

// IsCorrect reports whether the revealed choice was correct.
func (m MultiChoice) IsCorrect() bool {
	return m.Revealed && m.ChosenIndex == m.CorrectIndex
}
