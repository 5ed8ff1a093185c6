// Package layout draws the chrome around every screen: the header bar,
// the key-hint footer and the size guard.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
	FooterHeight = 3

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool   { return width < CompactWidthThreshold }
func IsCompactHeight(height int) bool { return height < CompactHeightThreshold }

// IsTooSmall reports whether the terminal is below MinWidth x MinHeight.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	body := fmt.Sprintf("StudyDesk needs at least %d x %d\n\nCurrent size: %d x %d\n\nEnlarge the window to continue.",
		MinWidth, MinHeight, width, height)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(body)
}

// HeaderStats is the study summary shown on the right of the header.
type HeaderStats struct {
	Sessions int
	Minutes  int
	Streak   int
	Running  string // countdown of a running timer, "" when none
}

func (st HeaderStats) render() string {
	var b strings.Builder
	if st.Running != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.StudyColor).Bold(true).Render("⏱ " + st.Running))
		b.WriteString("   ")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("● %d · %dm", st.Sessions, st.Minutes)))
	b.WriteString("   ")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Highlight).Render(fmt.Sprintf("★ %d", st.Streak)))
	return b.String()
}

// RenderHeader renders the brand on the left, the screen title centred and
// the study summary on the right.
func RenderHeader(title string, st HeaderStats, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  StudyDesk")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	return bar(width).Render(spread(brand, center, st.render(), width-4))
}

// RenderFooter renders the key hints in a single bar.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar(width).Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, giving the content all
// rows the bars leave over.
func RenderFrame(header, content, footer string, width, height int) string {
	rows := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rows).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// spread places center in the middle of inner columns when there is room,
// with left and right pinned to the edges. Gaps never drop below one space.
func spread(left, center, right string, inner int) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((max(inner, 0)-cw)/2-lw, 1)
	rightGap := max(inner-lw-leftGap-cw-rw, 1)
	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
}
