package components

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/ui/theme"
)

// eighths are the partial block glyphs for 1/8 to 7/8 of a cell.
var eighths = []rune("▏▎▍▌▋▊▉")

// ProgressBar is a one-line bar drawn with eighth-cell precision so slow
// timers still move every few seconds. Label sits left of the bar and
// Suffix right of it.
type ProgressBar struct {
	Label  string
	Suffix string
	Value  float64 // 0..1
	Width  int
	Color  color.Color // nil means theme.Secondary
}

// NewProgressBar creates a bar of total width w.
func NewProgressBar(label string, value float64, w int) ProgressBar {
	return ProgressBar{Label: label, Value: value, Width: w}
}

// WithPercent sets the suffix to the rounded-down percentage.
func (p ProgressBar) WithPercent() ProgressBar {
	p.Suffix = fmt.Sprintf("%d%%", int(clamp01(p.Value)*100))
	return p
}

func (p ProgressBar) View() string {
	var left, right string
	if p.Label != "" {
		left = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	if p.Suffix != "" {
		right = "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Suffix)
	}

	cells := max(p.Width-lipgloss.Width(left)-lipgloss.Width(right), 4)
	exact := clamp01(p.Value) * float64(cells)
	full := int(exact)
	part := int((exact - math.Floor(exact)) * 8)

	fill := p.Color
	if fill == nil {
		fill = theme.Secondary
	}
	track := lipgloss.NewStyle().Background(theme.Border)

	var bar strings.Builder
	bar.WriteString(lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("█", full)))
	rest := cells - full
	if part > 0 && rest > 0 {
		bar.WriteString(track.Foreground(fill).Render(string(eighths[part-1])))
		rest--
	}
	bar.WriteString(track.Render(strings.Repeat(" ", rest)))

	return left + bar.String() + right
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
