package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studydesk/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

type resumingScreen struct {
	stubScreen
	resumed int
}

func (r *resumingScreen) Resume() tea.Cmd {
	r.resumed++
	return func() tea.Msg { return "resumed" }
}

func TestPopResumesExposedScreen(t *testing.T) {
	focus := &resumingScreen{stubScreen: stubScreen{title: "focus"}}
	r := New(&stubScreen{title: "home"})
	r.Push(focus)
	r.Push(&stubScreen{title: "picker"})

	cmd := r.Pop()
	if focus.resumed != 1 {
		t.Fatalf("resumed = %d, want 1", focus.resumed)
	}
	if cmd == nil || cmd() != "resumed" {
		t.Error("expected Pop to return the Resume command")
	}

	if cmd := r.Pop(); cmd != nil {
		t.Error("expected nil command when the exposed screen is not a Resumer")
	}
	if r.Pop() != nil || focus.resumed != 1 {
		t.Error("popping the root must not resume anything")
	}
}

// countingScreen records the messages it receives.
type countingScreen struct {
	stubScreen
	msgs int
}

func (c *countingScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) {
	c.msgs++
	return c, nil
}

func TestDeliverToCoveredScreen(t *testing.T) {
	timer := &countingScreen{stubScreen: stubScreen{title: "timer"}}
	r := New(&stubScreen{title: "home"})
	r.Push(timer)
	r.Push(&stubScreen{title: "picker"})

	r.Deliver(timer, "tick")
	if timer.msgs != 1 {
		t.Errorf("timer got %d messages, want 1", timer.msgs)
	}
	if r.Active().Title() != "picker" {
		t.Errorf("expected active 'picker', got %q", r.Active().Title())
	}
	if !r.Contains(timer) {
		t.Error("expected timer to stay on the stack")
	}
}

func TestDeliverOffStack(t *testing.T) {
	timer := &countingScreen{stubScreen: stubScreen{title: "timer"}}
	r := New(&stubScreen{title: "home"})

	r.Deliver(timer, "tick")
	r.Deliver(timer, "tick")
	if timer.msgs != 2 {
		t.Errorf("timer got %d messages, want 2", timer.msgs)
	}
	if r.Contains(timer) {
		t.Error("Deliver must not push the screen")
	}
	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Deliver(nil, "tick") != nil {
		t.Error("expected nil command for a nil target")
	}
}
