package timer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studydesk/internal/persist"
	"github.com/abhisek/studydesk/internal/recommend"
	"github.com/abhisek/studydesk/internal/settings"
)

type fakeRecommender struct {
	res recommend.Result
	err error
}

func (f fakeRecommender) Recommend(context.Context, recommend.Input) (recommend.Result, error) {
	return f.res, f.err
}

type recordingSink struct {
	mu   sync.Mutex
	recs []persist.Record
	err  error
}

func (s *recordingSink) CreateSession(_ context.Context, rec persist.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return s.err
}

func (s *recordingSink) records() []persist.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]persist.Record(nil), s.recs...)
}

type countingNotifier struct {
	mu sync.Mutex
	n  int
}

func (c *countingNotifier) Notify(string, string, bool, bool) error {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
	return nil
}

// immediate fires scheduled callbacks right away so sessions run in
// milliseconds.
func immediate(_ time.Duration, fn func()) { go fn() }

func startRunner(t *testing.T, s settings.Settings, cfg RunnerConfig) (*Runner, func()) {
	t.Helper()
	m, initial := New(Config{Settings: s})
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = immediate
	}
	r := NewRunner(m, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		_ = r.Run(ctx, initial)
	}()
	return r, func() {
		cancel()
		<-exited
	}
}

func waitRecommendation(t *testing.T, r *Runner) {
	t.Helper()
	require.Eventually(t, func() bool {
		var pending bool
		_ = r.Do(func(m *Machine) ([]Effect, error) {
			pending = m.RecommendationPending()
			return nil, nil
		})
		return !pending
	}, time.Second, 5*time.Millisecond)
}

func TestRunnerCompletesSessionAndSavesInOrder(t *testing.T) {
	s := settings.Defaults()
	s.AutoStartBreak = false

	sink := &recordingSink{}
	notifier := &countingNotifier{}
	completed := make(chan Session, 1)
	r, stop := startRunner(t, s, RunnerConfig{
		Recommender: fakeRecommender{res: recommend.Result{Minutes: 5, Method: recommend.MethodAlgorithm}},
		Sink:        sink,
		Notifier:    notifier,
		OnEffect: func(_ *Machine, e Effect) {
			if c, ok := e.(SessionCompleted); ok {
				completed <- c.Session
			}
		},
	})
	waitRecommendation(t, r)

	require.NoError(t, r.Do(func(m *Machine) ([]Effect, error) { return m.SelectMaterial(algebra) }))
	require.NoError(t, r.Do(func(m *Machine) ([]Effect, error) { return m.Start() }))

	var done Session
	select {
	case done = <-completed:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not complete")
	}
	stop()

	assert.Equal(t, 300, done.ElapsedSeconds)
	assert.True(t, done.AIRecommended)

	recs := sink.records()
	require.Len(t, recs, 5)
	for i, rec := range recs[:4] {
		assert.Equal(t, (i+1)*60, rec.ElapsedSeconds)
		assert.False(t, rec.Completed)
	}
	last := recs[4]
	assert.True(t, last.Completed)
	assert.Equal(t, 300, last.ElapsedSeconds)
	assert.Equal(t, done.ID, last.SessionID)
	assert.Equal(t, 1, notifier.n)
}

func TestRunnerFallsBackWhenRecommenderFails(t *testing.T) {
	r, stop := startRunner(t, settings.Defaults(), RunnerConfig{
		Recommender: fakeRecommender{err: errors.New("timeout")},
	})
	defer stop()
	waitRecommendation(t, r)

	var planned int
	var insight string
	require.NoError(t, r.Do(func(m *Machine) ([]Effect, error) {
		planned = m.Session().PlannedSeconds
		insight = m.Insight()
		return nil, nil
	}))
	assert.Equal(t, recommend.DefaultMinutes*60, planned)
	assert.Equal(t, recommend.Fallback().Insight, insight)
}

func TestRunnerSaveFailureDoesNotStopTimer(t *testing.T) {
	s := settings.Defaults()
	s.AutoStartBreak = false
	completed := make(chan struct{}, 1)
	r, stop := startRunner(t, s, RunnerConfig{
		Recommender: fakeRecommender{res: recommend.Result{Minutes: 5}},
		Sink:        &recordingSink{err: errors.New("disk full")},
		OnEffect: func(_ *Machine, e Effect) {
			if _, ok := e.(SessionCompleted); ok {
				completed <- struct{}{}
			}
		},
	})
	defer stop()
	waitRecommendation(t, r)

	require.NoError(t, r.Do(func(m *Machine) ([]Effect, error) { return m.SelectMaterial(algebra) }))
	require.NoError(t, r.Do(func(m *Machine) ([]Effect, error) { return m.Start() }))

	select {
	case <-completed:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not complete")
	}
}

func TestRunnerDoReturnsRejection(t *testing.T) {
	r, stop := startRunner(t, settings.Defaults(), RunnerConfig{})
	defer stop()

	err := r.Do(func(m *Machine) ([]Effect, error) { return m.Start() })
	assert.ErrorIs(t, err, ErrMaterialRequired)
}

func TestRunnerDoAfterStop(t *testing.T) {
	r, stop := startRunner(t, settings.Defaults(), RunnerConfig{})
	stop()

	err := r.Do(func(m *Machine) ([]Effect, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrRunnerStopped)
}
