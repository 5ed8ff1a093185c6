package components

import (
	"strings"

	"github.com/abhisek/studydesk/internal/ui/theme"
)

// Button is a labelled choice in a confirmation prompt. Key is the hotkey
// the screen listens for; the button itself handles no input.
type Button struct {
	Key     string
	Label   string
	Default bool
}

// NewButton creates a button answered by key.
func NewButton(key, label string, isDefault bool) Button {
	return Button{Key: key, Label: label, Default: isDefault}
}

func (b Button) View() string {
	label := " " + b.Label + " "
	if b.Key != "" {
		label = " [" + strings.ToUpper(b.Key) + "]" + label
	}
	if b.Default {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}

// ButtonRow lays buttons out on one line, two spaces apart.
func ButtonRow(buttons ...Button) string {
	views := make([]string, len(buttons))
	for i, b := range buttons {
		views[i] = b.View()
	}
	return strings.Join(views, "  ")
}
