package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/ui/components"
	"github.com/abhisek/studydesk/internal/ui/theme"
)

const titleFull = `┏━┓╺┳╸╻ ╻╺┳┓╻ ╻╺┳┓┏━╸┏━┓╻┏ 
┗━┓ ┃ ┃ ┃ ┃┃┗┳┛ ┃┃┣╸ ┗━┓┣┻┓
┗━┛ ╹ ┗━┛╺┻┛ ╹ ╺┻┛┗━╸┗━┛╹ ╹`

const titleCompact = "S · T · U · D · Y · D · E · S · K"

// menuButtonWidth is the fixed width of menu buttons.
const menuButtonWidth = 22

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.StudyColor).Bold(true)
	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(style.Render(art))
}

// renderStatusBar shows today's totals and what the timer is doing.
func renderStatusBar(st Status, cw int, compact bool) string {
	sessions := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	minutes := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	streak := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var line string
	if compact {
		line = fmt.Sprintf("%s %s %s",
			sessions.Render(fmt.Sprintf("●%d", st.Sessions)),
			minutes.Render(fmt.Sprintf("⏱%dm", st.Minutes)),
			streak.Render(fmt.Sprintf("★%d", st.Streak)))
	} else {
		line = fmt.Sprintf("%s  %s  %s",
			sessions.Render(fmt.Sprintf("● %d SESSIONS", st.Sessions)),
			minutes.Render(fmt.Sprintf("⏱ %d MIN", st.Minutes)),
			streak.Render(fmt.Sprintf("★ %d STREAK", st.Streak)))
	}

	timer := dim.Render(st.Mode + " · ready")
	if st.Running {
		timer = lipgloss.NewStyle().Foreground(theme.Success).Render(st.Mode + " · running")
	}
	if st.Material != "" && !compact {
		timer += dim.Render(" · " + st.Material)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line + "\n" + timer)
}

func renderMenu(items []string, selected, cw int, disabled map[int]bool) string {
	disabledBtn := lipgloss.NewStyle().
		Width(menuButtonWidth).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	buttons := make([]string, 0, len(items))
	for i, label := range items {
		if disabled[i] {
			buttons = append(buttons, disabledBtn.Render(label))
			continue
		}
		buttons = append(buttons, components.MenuButton(label, i == selected, menuButtonWidth))
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(buttons, "\n"))
}

// renderMenuCompact renders the menu as plain lines for small terminals.
func renderMenuCompact(items []string, selected, cw int, disabled map[int]bool) string {
	lines := make([]string, 0, len(items))
	for i, label := range items {
		switch {
		case disabled[i]:
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render("   "+label))
		case i == selected:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Highlight).
				Bold(true).
				Render(" ▸ "+label+" "))
		default:
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.Text).Render("   "+label))
		}
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

func renderLLMBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Set an LLM API key to enable quizzes and AI session lengths (see studydesk --help)")
}

func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(RenderMascot(variant))
}

// renderFrame wraps content in a double border, centered both ways.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
