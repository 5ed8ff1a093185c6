// Package stats shows productivity analytics, the session history and
// earned achievements on three tabs.
package stats

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/achievements"
	"github.com/abhisek/studydesk/internal/analytics"
	"github.com/abhisek/studydesk/internal/router"
	"github.com/abhisek/studydesk/internal/screen"
	"github.com/abhisek/studydesk/internal/store"
	"github.com/abhisek/studydesk/internal/timer"
	"github.com/abhisek/studydesk/internal/ui/components"
	"github.com/abhisek/studydesk/internal/ui/layout"
	"github.com/abhisek/studydesk/internal/ui/theme"
)

const historyLimit = 50

type tab int

const (
	tabOverview tab = iota
	tabHistory
	tabAchievements
)

var tabNames = []string{"Overview", "History", "Achievements"}

type statsLoadedMsg struct {
	stats   analytics.Stats
	history []store.SessionRecord
	awards  []achievements.Award
	counts  map[achievements.Category]int
	total   int
	err     error
}

// Screen is the stats screen.
type Screen struct {
	analytics    *analytics.Service
	achievements *achievements.Service
	userID       string

	tab     tab
	stats   analytics.Stats
	history []store.SessionRecord
	awards  []achievements.Award
	counts  map[achievements.Category]int
	total   int
	scroll  int
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the stats screen. ach may be nil.
func New(svc *analytics.Service, ach *achievements.Service, userID string) *Screen {
	return &Screen{analytics: svc, achievements: ach, userID: userID}
}

func (s *Screen) Init() tea.Cmd {
	svc, ach, userID := s.analytics, s.achievements, s.userID
	return func() tea.Msg {
		ctx := context.Background()
		var msg statsLoadedMsg
		msg.stats, msg.err = svc.Stats(ctx, userID, analytics.DefaultDays)
		if msg.err != nil {
			return msg
		}
		if msg.history, msg.err = svc.History(ctx, userID, historyLimit); msg.err != nil {
			return msg
		}
		if ach != nil {
			if msg.awards, msg.err = ach.List(ctx, 0); msg.err != nil {
				return msg
			}
			msg.counts, msg.total, msg.err = ach.Counts(ctx)
		}
		return msg
	}
}

func (s *Screen) Title() string {
	return "Stats"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch tab"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.stats = msg.stats
		s.history = msg.history
		s.awards = msg.awards
		s.counts = msg.counts
		s.total = msg.total
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab", "right", "l":
			s.tab = (s.tab + 1) % tab(len(tabNames))
			s.scroll = 0
		case "shift+tab", "left", "h":
			s.tab = (s.tab - 1 + tab(len(tabNames))) % tab(len(tabNames))
			s.scroll = 0
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			if s.scroll < s.rowCount()-1 {
				s.scroll++
			}
		}
	}
	return s, nil
}

func (s *Screen) rowCount() int {
	switch s.tab {
	case tabHistory:
		return len(s.history)
	case tabAchievements:
		return len(s.awards)
	}
	return 0
}

func (s *Screen) View(width, height int) string {
	center := func(str string) string { return components.Centered(str, width) }
	if s.errMsg != "" {
		return "\n\n" + center(lipgloss.NewStyle().Foreground(theme.Error).Render("Error: "+s.errMsg))
	}
	if !s.loaded {
		return "\n\n" + center(theme.Hint.Render("Loading stats..."))
	}

	var b strings.Builder
	b.WriteString("\n")
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == s.tab {
			tabs[i] = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Underline(true).Render(name)
		} else {
			tabs[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render(name)
		}
	}
	b.WriteString(center(strings.Join(tabs, "     ")))
	b.WriteString("\n\n")

	cw := components.ContentWidth(width)
	rows := max(height-8, 3)
	switch s.tab {
	case tabOverview:
		b.WriteString(s.renderOverview(width, cw))
	case tabHistory:
		b.WriteString(s.renderHistory(width, rows))
	case tabAchievements:
		b.WriteString(s.renderAchievements(width, cw, rows))
	}
	return b.String()
}

func (s *Screen) renderOverview(width, cw int) string {
	st := s.stats
	center := func(str string) string { return components.Centered(str, width) }
	var b strings.Builder

	summary := fmt.Sprintf("Sessions: %d        Focus: %s        Average: %.0f min",
		st.TotalSessions, formatMinutes(st.TotalMinutes), st.AverageSessionMinutes)
	b.WriteString(center(theme.Body.Render(summary)))
	b.WriteString("\n")
	detail := fmt.Sprintf("AI-tuned: %.0f%%        Breaks: %d        Quizzes: %d (%.0f%% correct)",
		st.AIRecommendedShare*100, st.BreakSessions, st.QuizAttempts, st.QuizAccuracy*100)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)))
	b.WriteString("\n\n")

	b.WriteString(center(components.Card(renderChart(st.Days, cw-8), cw)))
	b.WriteString("\n")

	if st.BestDay != nil {
		best := fmt.Sprintf("★ Best day: %s with %s", st.BestDay.Date.Format("Mon Jan 02"), formatMinutes(st.BestDay.Minutes))
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Highlight).Render(best)))
	}
	return b.String()
}

// renderChart draws one horizontal bar per day scaled to the busiest day.
func renderChart(days []analytics.DayStat, width int) string {
	peak := 0
	for _, d := range days {
		peak = max(peak, d.Minutes)
	}
	barWidth := max(width-16, 4)
	lines := make([]string, 0, len(days))
	for _, d := range days {
		n := 0
		if peak > 0 {
			n = d.Minutes * barWidth / peak
		}
		if d.Minutes > 0 && n == 0 {
			n = 1
		}
		bar := lipgloss.NewStyle().Foreground(theme.StudyColor).Render(strings.Repeat("█", n))
		lines = append(lines, fmt.Sprintf("%s %s %s",
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(d.Date.Format("Mon")),
			bar,
			lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("%dm", d.Minutes))))
	}
	return lipgloss.NewStyle().Align(lipgloss.Left).Render(strings.Join(lines, "\n"))
}

func (s *Screen) renderHistory(width, rows int) string {
	if len(s.history) == 0 {
		return components.Centered(theme.Hint.Render("No sessions yet. Start a focus session!"), width)
	}
	var b strings.Builder
	end := min(s.scroll+rows, len(s.history))
	for i := s.scroll; i < end; i++ {
		rec := s.history[i]
		status := "✓"
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if !rec.Completed {
			status = "…"
			style = style.Foreground(theme.TextDim)
		}
		ai := ""
		if rec.AIRecommended {
			ai = " ✦"
		}
		line := fmt.Sprintf("%s  %s  %-11s %s / %s%s",
			status,
			rec.UpdatedAt.Local().Format("Jan 02 15:04"),
			timer.Mode(rec.Mode).Label(),
			components.FormatClock(rec.ElapsedSecs),
			components.FormatClock(rec.PlannedSecs),
			ai)
		if i == s.scroll {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(components.Centered(style.Render(line), width))
		b.WriteString("\n")
	}
	if end < len(s.history) {
		b.WriteString(components.Centered(theme.Hint.Render(fmt.Sprintf("... %d more", len(s.history)-end)), width))
	}
	return b.String()
}

func (s *Screen) renderAchievements(width, cw, rows int) string {
	var b strings.Builder
	counts := make([]string, 0, len(achievements.AllCategories()))
	for _, c := range achievements.AllCategories() {
		counts = append(counts, fmt.Sprintf("%s %d", c.Icon(), s.counts[c]))
	}
	b.WriteString(components.Centered(theme.Body.Render(fmt.Sprintf("Total: %d   ", s.total)+strings.Join(counts, "  ")), width))
	b.WriteString("\n")
	b.WriteString(components.Centered(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)), width))
	b.WriteString("\n\n")

	if len(s.awards) == 0 {
		b.WriteString(components.Centered(theme.Hint.Render("No achievements yet"), width))
		return b.String()
	}
	end := min(s.scroll+rows, len(s.awards))
	for i := s.scroll; i < end; i++ {
		a := s.awards[i]
		line := components.AwardLine(a) + "  " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(a.AwardedAt.Local().Format("Jan 02"))
		b.WriteString(components.Centered(line, width))
		b.WriteString("\n")
	}
	if end < len(s.awards) {
		b.WriteString(components.Centered(theme.Hint.Render(fmt.Sprintf("... %d more", len(s.awards)-end)), width))
	}
	return b.String()
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}
