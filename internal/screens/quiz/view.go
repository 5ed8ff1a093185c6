package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/studydesk/internal/quiz"
	"github.com/abhisek/studydesk/internal/ui/components"
	"github.com/abhisek/studydesk/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	center := func(str string) string { return components.Centered(str, width) }
	var b strings.Builder
	b.WriteString("\n")

	switch s.phase {
	case phaseGenerating:
		b.WriteString(center(s.spinner.View() + " " +
			theme.Body.Render(fmt.Sprintf("Writing questions on %s...", s.file.Name))))
	case phaseAnswering:
		b.WriteString(s.renderQuestion(width))
	case phaseResults:
		b.WriteString(s.renderResults(width))
	default:
		b.WriteString(center(theme.Hint.Render("Pick a study file to be quizzed on. Press M.")))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)))
	}
	return b.String()
}

func (s *Screen) renderQuestion(width int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	info := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Q %d/%d", s.q.Current()+1, s.q.Total()))
	score := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s %d   %s %s",
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"), s.q.Score(),
			lipgloss.NewStyle().Foreground(theme.Accent).Render("⏱"), components.FormatClock(s.q.Elapsed())))
	pad := cw - lipgloss.Width(info) - lipgloss.Width(score)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(components.Centered(info+strings.Repeat(" ", pad)+score, width))
	b.WriteString("\n")

	countdown := float64(s.q.Remaining()) / float64(max(s.q.QuestionSeconds(), 1))
	bar := components.NewProgressBar(fmt.Sprintf("%2ds", s.q.Remaining()), countdown, cw)
	if s.q.Remaining() <= 5 {
		bar.Color = theme.Error
	}
	b.WriteString(components.Centered(bar.View(), width))
	b.WriteString("\n\n")

	mc := lipgloss.NewStyle().Width(cw).Render(s.mc.View())
	b.WriteString(components.Centered(mc, width))
	b.WriteString("\n")

	switch s.q.QuestionState() {
	case qz.Answered:
		if s.mc.IsCorrect() {
			b.WriteString(components.Centered(theme.Correct.Render("Correct!"), width))
		} else {
			b.WriteString(components.Centered(theme.Incorrect.Render("Not quite"), width))
		}
	case qz.TimedOut:
		b.WriteString(components.Centered(theme.Incorrect.Render("Time's up"), width))
	}
	if s.q.QuestionState() != qz.Unanswered {
		if exp := s.q.Question().Explanation; exp != "" {
			b.WriteString("\n\n")
			b.WriteString(components.Centered(
				lipgloss.NewStyle().Width(cw).Foreground(theme.TextDim).Render(exp), width))
		}
	}
	return b.String()
}

func (s *Screen) renderResults(width int) string {
	cw := components.ContentWidth(width)
	res := s.result
	var b strings.Builder

	headline := "Quiz complete!"
	if res.Perfect() {
		headline = "Perfect score!"
	}
	b.WriteString(components.Centered(theme.Title.Render(headline), width))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Score: %d/%d        Accuracy: %.0f%%        Time: %s",
		res.Score, res.Total, res.Accuracy()*100, components.FormatClock(res.ElapsedSeconds))
	b.WriteString(components.Centered(theme.Body.Render(stats), width))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
	b.WriteString(components.Centered(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Answers"), width))
	b.WriteString("\n")
	b.WriteString(components.Centered(divider, width))
	b.WriteString("\n")

	lines := make([]string, 0, len(res.Answers))
	for _, a := range res.Answers {
		mark, style := "✓", theme.Correct
		switch {
		case a.TimedOut:
			mark, style = "⏱", theme.Incorrect
		case !a.Correct:
			mark, style = "✗", theme.Incorrect
		}
		lines = append(lines, fmt.Sprintf("%s  Q%d", style.Render(mark), a.QuestionIndex+1))
	}
	b.WriteString(components.Centered(strings.Join(lines, "   "), width))
	b.WriteString("\n")

	if len(s.awards) > 0 {
		b.WriteString("\n")
		b.WriteString(components.Centered(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Achievements"), width))
		b.WriteString("\n")
		b.WriteString(components.Centered(divider, width))
		b.WriteString("\n")
		for _, a := range s.awards {
			b.WriteString(components.Centered(components.AwardLine(a), width))
			b.WriteString("\n")
		}
	}
	return b.String()
}
