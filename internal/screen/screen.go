// Package screen defines the contract between the router and the
// individual TUI screens.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydesk/internal/ui/layout"
)

// Screen is one page of the TUI. Screens live on the router's stack; only
// the top one receives key input.
type Screen interface {
	// Init returns the command to run when the screen is pushed.
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body between the header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is implemented by screens that need to react when the screen
// above them is popped, such as the timer after a material picker closes.
type Resumer interface {
	Resume() tea.Cmd
}
