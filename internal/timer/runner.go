package timer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/abhisek/studydesk/internal/persist"
	"github.com/abhisek/studydesk/internal/recommend"
)

// ErrRunnerStopped is returned by Do once the runner has exited.
var ErrRunnerStopped = errors.New("timer runner stopped")

// Notifier alerts the user.
type Notifier interface {
	Notify(title, body string, sound, desktop bool) error
}

// RunnerConfig wires a Runner to its collaborators. Nil fields fall back
// to recommend.Algorithm, persist.Discard, no notifications and
// time.AfterFunc.
type RunnerConfig struct {
	Recommender recommend.Recommender
	Sink        persist.Sink
	Notifier    Notifier

	// OnEffect observes every effect after the runner has handled it.
	OnEffect func(m *Machine, e Effect)
	// OnUpdate is called after each processed event.
	OnUpdate func(m *Machine)

	AfterFunc func(d time.Duration, fn func())
}

// Runner owns a Machine on a single goroutine. Scheduled callbacks and
// collaborator results are posted back to that goroutine, so the machine
// only ever sees one event at a time. Saves go through a Saver.
type Runner struct {
	m     *Machine
	cfg   RunnerConfig
	ctx   context.Context
	inbox chan func()
	saver *Saver
	done  chan struct{}
}

// NewRunner creates a runner for m.
func NewRunner(m *Machine, cfg RunnerConfig) *Runner {
	if cfg.Recommender == nil {
		cfg.Recommender = recommend.Algorithm{}
	}
	if cfg.Sink == nil {
		cfg.Sink = persist.Discard{}
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	return &Runner{
		m:     m,
		cfg:   cfg,
		inbox: make(chan func(), 16),
		done:  make(chan struct{}),
	}
}

// Run executes the initial effects (usually the ones returned by New) and
// processes events until ctx is cancelled. Pending saves are flushed before
// it returns.
func (r *Runner) Run(ctx context.Context, initial []Effect) error {
	r.ctx = ctx
	r.saver = NewSaver(ctx, r.cfg.Sink)

	r.exec(initial)
	r.update()
	for {
		select {
		case <-ctx.Done():
			close(r.done)
			r.saver.Close()
			return nil
		case fn := <-r.inbox:
			fn()
			r.update()
		}
	}
}

// Do runs fn on the runner goroutine and executes the effects it returns.
// fn must not keep the machine after it returns.
func (r *Runner) Do(fn func(m *Machine) ([]Effect, error)) error {
	errc := make(chan error, 1)
	ok := r.post(func() {
		effs, err := fn(r.m)
		r.exec(effs)
		errc <- err
	})
	if !ok {
		return ErrRunnerStopped
	}
	select {
	case err := <-errc:
		return err
	case <-r.done:
		return ErrRunnerStopped
	}
}

func (r *Runner) post(fn func()) bool {
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case r.inbox <- fn:
		return true
	case <-r.done:
		return false
	}
}

func (r *Runner) update() {
	if r.cfg.OnUpdate != nil {
		r.cfg.OnUpdate(r.m)
	}
}

func (r *Runner) exec(effs []Effect) {
	for _, e := range effs {
		switch e := e.(type) {
		case ScheduleTick:
			r.cfg.AfterFunc(e.After, func() {
				r.post(func() { r.exec(r.m.Tick(e.Epoch)) })
			})
		case ScheduleAutoStart:
			r.cfg.AfterFunc(e.After, func() {
				r.post(func() { r.exec(r.m.Fire(e.Epoch)) })
			})
		case RequestRecommendation:
			go r.recommend(e)
		case SaveCheckpoint:
			r.saver.Save(e.Record)
		case SaveCompleted:
			r.saver.Save(e.Record)
		case Notify:
			if r.cfg.Notifier != nil {
				if err := r.cfg.Notifier.Notify(e.Title, e.Body, e.Sound, e.Desktop); err != nil {
					slog.Warn("notification failed", "error", err)
				}
			}
		case SessionDiscarded:
			slog.Info("session discarded",
				"session_id", e.Session.ID,
				"mode", e.Session.Mode,
				"elapsed_seconds", e.Session.ElapsedSeconds)
		case SessionCompleted:
			slog.Info("session completed",
				"session_id", e.Session.ID,
				"mode", e.Session.Mode,
				"elapsed_seconds", e.Session.ElapsedSeconds,
				"skipped", e.Skipped)
		}
		if r.cfg.OnEffect != nil {
			r.cfg.OnEffect(r.m, e)
		}
	}
}

func (r *Runner) recommend(req RequestRecommendation) {
	res, err := r.cfg.Recommender.Recommend(r.ctx, req.Input)
	if err != nil {
		slog.Warn("recommendation failed, using default duration", "error", err)
	}
	r.post(func() { r.m.ApplyRecommendation(req.Seq, res, err) })
}
