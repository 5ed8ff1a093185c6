package focus

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/timer"
	"github.com/abhisek/studydesk/internal/ui/components"
	"github.com/abhisek/studydesk/internal/ui/theme"
)

// ModeColor returns the accent color of a mode.
func ModeColor(m timer.Mode) color.Color {
	return theme.ForMode(string(m))
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	center := func(str string) string { return components.Centered(str, width) }

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(s.renderTabs()))
	b.WriteString("\n\n")

	if mode, ok := s.m.PendingSwitch(); ok {
		b.WriteString(center(renderSwitchConfirm(mode, cw)))
		return b.String()
	}

	clockStyle := lipgloss.NewStyle().Foreground(ModeColor(s.m.Mode())).Bold(true)
	b.WriteString(center(clockStyle.Render(components.BigClock(s.m.Remaining()))))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("", s.m.Progress(), cw).WithPercent()
	bar.Color = ModeColor(s.m.Mode())
	b.WriteString(center(bar.View()))
	b.WriteString("\n\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.stateLine())))
	b.WriteString("\n")

	if s.m.Mode() == timer.Study {
		b.WriteString(center(s.materialLine()))
		b.WriteString("\n\n")
		b.WriteString(center(s.insightLine(cw)))
		b.WriteString("\n")
	} else if s.m.BreakSuggested() {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Secondary).
			Render("Nice work. Take a breather before the next session.")))
		b.WriteString("\n")
	}

	if s.banner != "" {
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(s.banner)))
		b.WriteString("\n")
	}
	for _, a := range s.awards {
		b.WriteString(center(components.AwardLine(a)))
		b.WriteString("\n")
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)))
	}
	return b.String()
}

func (s *Screen) renderTabs() string {
	tabs := make([]string, 0, len(timer.Modes))
	for i, mode := range timer.Modes {
		label := fmt.Sprintf(" %d %s ", i+1, mode.Label())
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		switch {
		case mode == s.m.Mode():
			style = lipgloss.NewStyle().Bold(true).Foreground(theme.BgDark).Background(ModeColor(mode))
		case mode.IsBreak() && !s.m.BreaksUnlocked():
			label = fmt.Sprintf(" %d %s (locked) ", i+1, mode.Label())
			style = style.Faint(true)
		}
		tabs = append(tabs, style.Render(label))
	}
	return strings.Join(tabs, "  ")
}

func (s *Screen) stateLine() string {
	switch s.m.State() {
	case timer.Running:
		return "Running"
	case timer.Paused:
		return "Paused · Space to resume"
	}
	if s.m.AwaitingMaterial() {
		return "Pick material to start the next session"
	}
	return "Ready · Space to start"
}

func (s *Screen) materialLine() string {
	mat, ok := s.m.Material()
	if !ok {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("No material selected · press M")
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("📖 %s · %s", mat.Name, mat.Subject))
}

func (s *Screen) insightLine(cw int) string {
	style := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Foreground(theme.Secondary).Italic(true)
	if s.m.RecommendationPending() {
		return style.Render("Finding the right session length...")
	}
	insight := s.m.Insight()
	if insight == "" {
		return ""
	}
	if s.m.Session().AIRecommended {
		insight = "✦ " + insight
	}
	return style.Render(insight)
}

func renderSwitchConfirm(mode timer.Mode, cw int) string {
	buttons := components.ButtonRow(
		components.NewButton("y", "Switch to "+mode.Label(), true),
		components.NewButton("n", "Stay paused", false),
	)
	body := lipgloss.NewStyle().Bold(true).Foreground(theme.Text).
		Render("Switch modes? The current session will be discarded.") +
		"\n\n" + buttons
	return components.Card(body, cw)
}
