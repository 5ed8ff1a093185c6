package quiz

import "time"

// Effect is work the quiz asks its owner to perform.
type Effect interface {
	effect()
}

// ScheduleTick asks for Tick(Epoch) after the delay.
type ScheduleTick struct {
	Epoch uint64
	After time.Duration
}

// ScheduleAdvance asks for Advance(Epoch) after the delay.
type ScheduleAdvance struct {
	Epoch uint64
	After time.Duration
}

// ScheduleElapsed asks for TickElapsed(Epoch) after the delay.
type ScheduleElapsed struct {
	Epoch uint64
	After time.Duration
}

// Completed reports the final result. It is produced exactly once.
type Completed struct {
	Result Result
}

func (ScheduleTick) effect()    {}
func (ScheduleAdvance) effect() {}
func (ScheduleElapsed) effect() {}
func (Completed) effect()       {}
