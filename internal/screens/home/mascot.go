package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle     MascotVariant = iota // waiting to start
	MascotFocused                       // a study session is running
	MascotResting                       // on a break
)

const mascotIdle = `  \|/
 ╭───╮
 │◉ ◉│
 │ ▽ │
 ╰───╯`

const mascotFocused = `  \|/
 ╭───╮
 │▬ ▬│
 │ ─ │
 ╰───╯ ✎`

const mascotResting = `  \|/   z
 ╭───╮ z
 │‿ ‿│
 │ ◡ │
 ╰───╯`

func mascotFor(st Status) MascotVariant {
	switch {
	case st.OnBreak:
		return MascotResting
	case st.Running:
		return MascotFocused
	}
	return MascotIdle
}

// RenderMascot returns the tomato mascot art for the given variant.
func RenderMascot(variant MascotVariant) string {
	art, fg := mascotIdle, theme.StudyColor
	switch variant {
	case MascotFocused:
		art = mascotFocused
	case MascotResting:
		art, fg = mascotResting, theme.ShortBreakColor
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
