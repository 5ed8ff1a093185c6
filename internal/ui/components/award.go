package components

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/achievements"
	"github.com/abhisek/studydesk/internal/ui/theme"
)

// RarityColor returns the theme color for an achievement rarity.
func RarityColor(r achievements.Rarity) color.Color {
	switch r {
	case achievements.RarityRare:
		return theme.Secondary
	case achievements.RarityEpic:
		return theme.Primary
	case achievements.RarityLegendary:
		return theme.Highlight
	default:
		return theme.Text
	}
}

// AwardLine renders one earned achievement in its rarity color.
func AwardLine(a achievements.Award) string {
	line := fmt.Sprintf("%s %s %s · %s", a.Category.Icon(), a.Rarity.DisplayName(), a.Title, a.Reason)
	return lipgloss.NewStyle().Foreground(RarityColor(a.Rarity)).Render(line)
}
