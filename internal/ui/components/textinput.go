package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with the app styling. Typed text that
// Accept rejects is dropped; a nil Accept takes everything.
type TextInput struct {
	Model    textinput.Model
	Accept   func(rune) bool
	rejected bool
}

// Digits accepts the characters of a non-negative integer.
func Digits(r rune) bool { return r >= '0' && r <= '9' }

// NewTextInput creates a focused input. limit caps the length when > 0.
func NewTextInput(placeholder string, accept func(rune) bool, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if limit > 0 {
		ti.CharLimit = limit
	}
	return TextInput{Model: ti, Accept: accept}
}

func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		if t.Accept != nil && k.Text != "" {
			for _, r := range k.Text {
				if !t.Accept(r) {
					return t, nil
				}
			}
		}
		t.rejected = false
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	view := t.Model.View()
	if t.rejected {
		view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return view
}

func (t TextInput) Value() string {
	return t.Model.Value()
}

// Reject marks the current value as refused until the next keystroke.
func (t *TextInput) Reject() {
	t.rejected = true
}
