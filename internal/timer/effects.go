package timer

import (
	"time"

	"github.com/abhisek/studydesk/internal/persist"
	"github.com/abhisek/studydesk/internal/recommend"
)

// Effect is work the machine asks its owner to perform. The machine never
// blocks or starts goroutines; the owner runs effects and reports results
// back through Tick, Fire and ApplyRecommendation.
type Effect interface {
	effect()
}

// ScheduleTick asks for Tick(Epoch) after the given delay.
type ScheduleTick struct {
	Epoch uint64
	After time.Duration
}

// ScheduleAutoStart asks for Fire(Epoch) after the given delay.
type ScheduleAutoStart struct {
	Epoch uint64
	After time.Duration
}

// RequestRecommendation asks for a recommendation; the answer goes to
// ApplyRecommendation(Seq, ...).
type RequestRecommendation struct {
	Seq   uint64
	Input recommend.Input
}

// SaveCheckpoint asks for an autosave of an in-progress session.
type SaveCheckpoint struct {
	Record persist.Record
}

// SaveCompleted asks for the final save of a finished session.
type SaveCompleted struct {
	Record persist.Record
}

// SessionDiscarded reports a started session thrown away by a reset or
// mode switch. Session keeps the elapsed time it had.
type SessionDiscarded struct {
	Session Session
}

// SessionCompleted reports a finished session along with the aggregate as
// updated by it.
type SessionCompleted struct {
	Session   Session
	Skipped   bool
	Aggregate DailyAggregate
}

// PromptMaterial asks the owner to let the user pick material for the next
// study session. The session starts on its own once SelectMaterial is
// called.
type PromptMaterial struct{}

// Notify asks the owner to alert the user.
type Notify struct {
	Title   string
	Body    string
	Sound   bool
	Desktop bool
}

func (ScheduleTick) effect()          {}
func (ScheduleAutoStart) effect()     {}
func (RequestRecommendation) effect() {}
func (SaveCheckpoint) effect()        {}
func (SaveCompleted) effect()         {}
func (SessionDiscarded) effect()      {}
func (SessionCompleted) effect()      {}
func (PromptMaterial) effect()        {}
func (Notify) effect()                {}
