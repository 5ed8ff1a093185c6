package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestSpreadKeepsGaps(t *testing.T) {
	got := spread("L", "center", "R", 4)
	if got != "L center R" {
		t.Errorf("spread on a narrow bar = %q, want single-space gaps", got)
	}

	got = spread("L", "mid", "R", 21)
	if w := lipgloss.Width(got); w != 21 {
		t.Errorf("width = %d, want 21", w)
	}
	if i := strings.Index(got, "mid"); i != 9 {
		t.Errorf("center starts at %d, want 9", i)
	}
}

func TestRenderHeaderShowsRunningTimer(t *testing.T) {
	idle := RenderHeader("Home", HeaderStats{Sessions: 3, Minutes: 75, Streak: 2}, 100)
	if strings.Contains(idle, "⏱") {
		t.Error("idle header should not show a countdown")
	}
	if !strings.Contains(idle, "75m") || !strings.Contains(idle, "★ 2") {
		t.Errorf("header missing stats: %q", idle)
	}

	running := RenderHeader("Focus", HeaderStats{Running: "12:34"}, 100)
	if !strings.Contains(running, "⏱ 12:34") {
		t.Errorf("header missing countdown: %q", running)
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("Stats", HeaderStats{}, 90)
	footer := RenderFooter([]KeyHint{{"Esc", "Back"}}, 90)
	frame := RenderFrame(header, "body", footer, 90, 30)
	if h := lipgloss.Height(frame); h != 30 {
		t.Errorf("frame height = %d, want 30", h)
	}
}

func TestSizeChecks(t *testing.T) {
	if !IsTooSmall(79, 40) || !IsTooSmall(120, 23) {
		t.Error("sizes below the minimum should be too small")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("the minimum size itself should fit")
	}
	if !IsCompactWidth(99) || IsCompactWidth(100) {
		t.Error("compact width threshold is 100 columns")
	}
}
