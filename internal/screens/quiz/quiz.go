// Package quiz is the practice quiz screen. The user picks a study file,
// questions are generated from its text, and each question runs on its
// own countdown before the results are recorded.
package quiz

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studydesk/internal/achievements"
	"github.com/abhisek/studydesk/internal/llm"
	"github.com/abhisek/studydesk/internal/materials"
	"github.com/abhisek/studydesk/internal/practice"
	qz "github.com/abhisek/studydesk/internal/quiz"
	"github.com/abhisek/studydesk/internal/router"
	"github.com/abhisek/studydesk/internal/screen"
	"github.com/abhisek/studydesk/internal/screens/picker"
	"github.com/abhisek/studydesk/internal/store"
	"github.com/abhisek/studydesk/internal/ui/components"
	"github.com/abhisek/studydesk/internal/ui/layout"
	"github.com/abhisek/studydesk/internal/ui/theme"
)

// ErrNoGenerator is shown when no LLM provider is configured.
var ErrNoGenerator = errors.New("question generation needs an LLM provider (set STUDYDESK_LLM_PROVIDER)")

// Deps are the collaborators of the quiz screen. Achievements may be nil.
type Deps struct {
	Generator    practice.Generator
	Materials    *materials.Service
	Events       store.EventRepo
	Achievements *achievements.Service
	UserID       string

	Count           int
	Type            practice.QuestionType
	QuestionSeconds int
}

type phase int

const (
	phaseChoosing phase = iota
	phaseGenerating
	phaseAnswering
	phaseResults
)

// Screen runs one practice quiz at a time.
type Screen struct {
	deps Deps
	ctx  context.Context

	phase    phase
	file     materials.File
	gen      uint64
	q        *qz.Quiz
	quizID   string
	mc       components.MultiChoice
	mcIndex  int
	prior    []string
	result   qz.Result
	awards   []achievements.Award
	spinner  spinner.Model
	errMsg   string
	recorded bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the quiz screen.
func New(ctx context.Context, deps Deps) *Screen {
	if deps.Count <= 0 {
		deps.Count = practice.DefaultCount
	}
	if deps.Type == "" {
		deps.Type = practice.TypeMultipleChoice
	}
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
	)
	return &Screen{deps: deps, ctx: ctx, spinner: sp, mcIndex: -1}
}

func (s *Screen) Init() tea.Cmd {
	return s.pickMaterial()
}

func (s *Screen) Title() string {
	return "Practice Quiz"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseAnswering:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Enter/A-F", Description: "Answer"},
			{Key: "Esc", Description: "Quit quiz"},
		}
	case phaseResults:
		return []layout.KeyHint{
			{Key: "R", Description: "New questions"},
			{Key: "M", Description: "Other material"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "M", Description: "Choose material"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case materialChosenMsg:
		s.file = msg.file
		s.prior = nil
		return s, s.generate()

	case questionsMsg:
		if msg.gen != s.gen || s.phase != phaseGenerating {
			return s, nil
		}
		if msg.err != nil {
			slog.Warn("question generation failed", "material_id", s.file.ID, "error", msg.err)
			s.phase = phaseChoosing
			s.errMsg = describeError(msg.err)
			return s, nil
		}
		return s, s.begin(msg.questions)

	case tickMsg:
		if s.q == nil {
			return s, nil
		}
		return s, s.exec(s.q.Tick(msg.epoch))

	case advanceMsg:
		if s.q == nil {
			return s, nil
		}
		return s, s.exec(s.q.Advance(msg.epoch))

	case elapsedMsg:
		if s.q == nil {
			return s, nil
		}
		return s, s.exec(s.q.TickElapsed(msg.epoch))

	case recordedMsg:
		if msg.err != nil {
			slog.Warn("recording quiz attempt failed", "quiz_id", s.quizID, "error", msg.err)
			s.errMsg = "Could not save this attempt."
		}
		s.awards = msg.awards
		return s, nil

	case spinner.TickMsg:
		if s.phase != phaseGenerating {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if key == "esc" {
		if s.q != nil {
			s.q.Stop()
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	switch s.phase {
	case phaseAnswering:
		if s.q.QuestionState() != qz.Unanswered {
			return s, nil
		}
		if key == "enter" {
			return s, s.answer(s.mc.Selected)
		}
		if i, ok := s.mc.OptionForKey(key); ok {
			return s, s.answer(i)
		}
		var cmd tea.Cmd
		s.mc, cmd = s.mc.Update(msg)
		return s, cmd

	case phaseResults:
		switch key {
		case "r":
			return s, s.generate()
		case "m":
			return s, s.pickMaterial()
		}

	case phaseChoosing:
		if key == "m" || key == "enter" {
			return s, s.pickMaterial()
		}
	}
	return s, nil
}

func (s *Screen) pickMaterial() tea.Cmd {
	if s.deps.Materials == nil {
		return nil
	}
	p := picker.New(s.deps.Materials, s.deps.UserID, "Quiz me on...", func(f materials.File) tea.Msg {
		return materialChosenMsg{file: f}
	})
	return func() tea.Msg { return router.PushScreenMsg{Screen: p} }
}

// generate asks for a fresh question set on the current file. Questions
// from earlier runs on the same file are passed along so they are not
// repeated.
func (s *Screen) generate() tea.Cmd {
	s.errMsg = ""
	s.awards = nil
	if s.deps.Generator == nil {
		s.errMsg = ErrNoGenerator.Error()
		return nil
	}
	s.phase = phaseGenerating
	s.gen++
	gen, file := s.gen, s.file
	ctx := llm.WithMaterial(s.ctx, file.ID)
	in := practice.Input{
		Subject:      file.Subject,
		Count:        s.deps.Count,
		Type:         s.deps.Type,
		PriorPrompts: append([]string(nil), s.prior...),
	}
	svc, g := s.deps.Materials, s.deps.Generator
	fetch := func() tea.Msg {
		content := file.Content
		if content == "" && svc != nil {
			full, err := svc.Get(ctx, file.ID)
			if err != nil {
				return questionsMsg{gen: gen, err: err}
			}
			content = full.Content
		}
		in.Content = content
		if strings.TrimSpace(in.Content) == "" {
			return questionsMsg{gen: gen, err: practice.ErrNoContent}
		}
		qs, err := g.Generate(ctx, in)
		return questionsMsg{gen: gen, questions: qs, err: err}
	}
	return tea.Batch(fetch, s.spinner.Tick)
}

func (s *Screen) begin(questions []qz.Question) tea.Cmd {
	s.q = qz.New(questions, qz.Config{QuestionSeconds: s.deps.QuestionSeconds})
	s.quizID = practice.NewQuizID()
	s.phase = phaseAnswering
	s.mcIndex = -1
	s.recorded = false
	for _, q := range questions {
		s.prior = append(s.prior, q.Prompt)
	}
	slog.Info("quiz started", "quiz_id", s.quizID, "material_id", s.file.ID, "questions", len(questions))
	return s.exec(s.q.Start())
}

func (s *Screen) answer(option int) tea.Cmd {
	effs, err := s.q.Select(option)
	if err != nil {
		return nil
	}
	return s.exec(effs)
}

// exec turns quiz effects into commands and keeps the option list in step
// with the current question.
func (s *Screen) exec(effs []qz.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effs {
		switch e := e.(type) {
		case qz.ScheduleTick:
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg { return tickMsg{epoch: e.Epoch} }))
		case qz.ScheduleAdvance:
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg { return advanceMsg{epoch: e.Epoch} }))
		case qz.ScheduleElapsed:
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg { return elapsedMsg{epoch: e.Epoch} }))
		case qz.Completed:
			s.result = e.Result
			s.phase = phaseResults
			cmds = append(cmds, s.record(e.Result))
		}
	}
	s.syncChoice()
	return tea.Batch(cmds...)
}

func (s *Screen) syncChoice() {
	if s.q == nil || s.q.Current() >= s.q.Total() {
		return
	}
	if s.mcIndex != s.q.Current() {
		q := s.q.Question()
		s.mc = components.NewMultiChoice(q.Prompt, q.Options, q.CorrectIndex)
		s.mcIndex = s.q.Current()
	}
	if s.q.QuestionState() != qz.Unanswered && !s.mc.Revealed {
		ans, _ := s.q.LastAnswer()
		s.mc.Reveal(ans.Selected)
	}
}

func (s *Screen) record(res qz.Result) tea.Cmd {
	if s.recorded {
		return nil
	}
	s.recorded = true
	attempt := practice.Attempt{
		QuizID:     s.quizID,
		UserID:     s.deps.UserID,
		MaterialID: s.file.ID,
		Subject:    s.file.Subject,
		Result:     res,
		FinishedAt: time.Now().UTC(),
	}
	ctx, events, ach := s.ctx, s.deps.Events, s.deps.Achievements
	return func() tea.Msg {
		if events == nil {
			return recordedMsg{}
		}
		if err := practice.Record(ctx, events, attempt); err != nil {
			return recordedMsg{err: err}
		}
		if ach == nil {
			return recordedMsg{}
		}
		awards, err := ach.OnQuizCompleted(ctx, achievements.QuizEvent{
			QuizID: attempt.QuizID,
			Score:  res.Score,
			Total:  res.Total,
		})
		return recordedMsg{awards: awards, err: err}
	}
}

func describeError(err error) string {
	switch {
	case errors.Is(err, practice.ErrNoContent):
		return "This file has no text to quiz on."
	case errors.Is(err, practice.ErrNoValidQuestions):
		return "The generated questions did not pass validation. Try again."
	}
	return "Could not generate questions. " + llm.Describe(err)
}
