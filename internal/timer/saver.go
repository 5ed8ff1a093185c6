package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/studydesk/internal/persist"
)

// saveTimeout bounds a single persistence call.
const saveTimeout = 10 * time.Second

// Saver persists records on one worker goroutine in the order they were
// submitted, so a late checkpoint never lands after the completed save of
// the same session. Failures are logged; they never reach the timer.
type Saver struct {
	sink persist.Sink
	ch   chan persist.Record
	wg   sync.WaitGroup
}

// NewSaver starts the worker. ctx supplies values only; saves already
// queued still run after it is cancelled.
func NewSaver(ctx context.Context, sink persist.Sink) *Saver {
	if sink == nil {
		sink = persist.Discard{}
	}
	s := &Saver{sink: sink, ch: make(chan persist.Record, 64)}
	s.wg.Add(1)
	go s.loop(context.WithoutCancel(ctx))
	return s
}

// Save queues rec. It must not be called after Close.
func (s *Saver) Save(rec persist.Record) {
	s.ch <- rec
}

// Close flushes queued saves and stops the worker.
func (s *Saver) Close() {
	close(s.ch)
	s.wg.Wait()
}

func (s *Saver) loop(ctx context.Context) {
	defer s.wg.Done()
	for rec := range s.ch {
		sctx, cancel := context.WithTimeout(ctx, saveTimeout)
		err := s.sink.CreateSession(sctx, rec)
		cancel()
		if err != nil {
			slog.Warn("session save failed",
				"session_id", rec.SessionID,
				"elapsed_seconds", rec.ElapsedSeconds,
				"completed", rec.Completed,
				"error", err)
		}
	}
}
