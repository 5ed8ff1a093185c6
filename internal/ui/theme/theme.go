// Package theme holds the fixed StudyDesk palette and the shared text
// styles. There is no user theming.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

var (
	Primary   = lipgloss.Color("#6366F1") // indigo
	Secondary = lipgloss.Color("#14B8A6") // teal
	Accent    = lipgloss.Color("#F59E0B") // amber
	Highlight = lipgloss.Color("#FACC15")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")

	Text    = lipgloss.Color("#F8FAFC")
	TextDim = lipgloss.Color("#94A3B8")
	BgDark  = lipgloss.Color("#0F172A")
	BgCard  = lipgloss.Color("#1E293B")
	Border  = lipgloss.Color("#334155")
)

// Timer mode accents.
var (
	StudyColor      = lipgloss.Color("#EF4444") // tomato
	ShortBreakColor = Secondary
	LongBreakColor  = lipgloss.Color("#3B82F6")
)

// ForMode returns the accent of a timer mode by its wire name. Unknown
// names get the study accent.
func ForMode(mode string) color.Color {
	switch mode {
	case "short_break":
		return ShortBreakColor
	case "long_break":
		return LongBreakColor
	}
	return StudyColor
}

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Selected = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	// Quiz feedback.
	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// Button faces; the default action is filled, the rest are outlined.
var (
	ButtonActive   = lipgloss.NewStyle().Background(Primary).Foreground(Text).Bold(true).Padding(0, 2)
	ButtonInactive = lipgloss.NewStyle().Background(BgCard).Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(0, 2)
)
