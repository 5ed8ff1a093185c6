package timer

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studydesk/internal/recommend"
	"github.com/abhisek/studydesk/internal/settings"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

var algebra = Material{ID: "m-algebra", Name: "Algebra notes", Subject: "Math"}

func newMachine(t *testing.T, mutate func(*settings.Settings)) *Machine {
	t.Helper()
	s := settings.Defaults()
	if mutate != nil {
		mutate(&s)
	}
	n := 0
	m, effs := New(Config{
		Settings: s,
		Clock:    func() time.Time { return testNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("s%d", n)
		},
	})
	req, ok := find[RequestRecommendation](effs)
	require.True(t, ok, "New must request a recommendation")
	m.ApplyRecommendation(req.Seq, recommend.Result{Minutes: 25, Method: recommend.MethodAlgorithm}, nil)
	return m
}

func find[T Effect](effs []Effect) (T, bool) {
	for _, e := range effs {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func all[T Effect](effs []Effect) []T {
	var out []T
	for _, e := range effs {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// tick follows the ScheduleTick chain n times and returns every effect
// produced along the way.
func tick(t *testing.T, m *Machine, effs []Effect, n int) []Effect {
	t.Helper()
	var out []Effect
	for i := 0; i < n; i++ {
		st, ok := find[ScheduleTick](effs)
		if !ok {
			t.Fatalf("tick %d: no ScheduleTick in %v", i, effs)
		}
		effs = m.Tick(st.Epoch)
		out = append(out, effs...)
	}
	return out
}

func start(t *testing.T, m *Machine) []Effect {
	t.Helper()
	effs, err := m.Start()
	require.NoError(t, err)
	return effs
}

// completeStudy runs a full study session so breaks unlock.
func completeStudy(t *testing.T, m *Machine) []Effect {
	t.Helper()
	if _, ok := m.Material(); !ok {
		_, err := m.SelectMaterial(algebra)
		require.NoError(t, err)
	}
	effs := start(t, m)
	return tick(t, m, effs, m.Remaining())
}

func TestNewStartsInIdleStudy(t *testing.T) {
	m, effs := New(Config{})
	if m.Mode() != Study {
		t.Errorf("Mode() = %v, want %v", m.Mode(), Study)
	}
	if m.State() != Idle {
		t.Errorf("State() = %v, want %v", m.State(), Idle)
	}
	if got := m.Remaining(); got != recommend.DefaultMinutes*60 {
		t.Errorf("Remaining() = %d, want %d", got, recommend.DefaultMinutes*60)
	}
	req, ok := find[RequestRecommendation](effs)
	if !ok {
		t.Fatal("expected RequestRecommendation")
	}
	if req.Input.CompletedSessions != 0 || req.Input.HoursStudiedToday != 0 {
		t.Errorf("Input = %+v, want zero totals", req.Input)
	}
	if !m.RecommendationPending() {
		t.Error("RecommendationPending() = false, want true")
	}
}

func TestApplyRecommendation(t *testing.T) {
	tests := []struct {
		name    string
		res     recommend.Result
		err     error
		want    int
		wantAI  bool
		insight string
	}{
		{"in range", recommend.Result{Minutes: 40, Insight: "Good focus window", Method: "ai"}, nil, 40, true, "Good focus window"},
		{"above max", recommend.Result{Minutes: 90, Method: "ai"}, nil, 60, true, ""},
		{"below min", recommend.Result{Minutes: 3, Method: "algorithm"}, nil, 5, true, ""},
		{"zero", recommend.Result{Minutes: 0}, nil, 25, false, recommend.Fallback().Insight},
		{"negative", recommend.Result{Minutes: -5}, nil, 25, false, recommend.Fallback().Insight},
		{"error", recommend.Result{Minutes: 45}, errors.New("service down"), 25, false, recommend.Fallback().Insight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, effs := New(Config{})
			req, _ := find[RequestRecommendation](effs)
			m.ApplyRecommendation(req.Seq, tt.res, tt.err)

			s := m.Session()
			if s.PlannedSeconds != tt.want*60 {
				t.Errorf("PlannedSeconds = %d, want %d", s.PlannedSeconds, tt.want*60)
			}
			if s.AIRecommended != tt.wantAI {
				t.Errorf("AIRecommended = %v, want %v", s.AIRecommended, tt.wantAI)
			}
			if m.Insight() != tt.insight {
				t.Errorf("Insight() = %q, want %q", m.Insight(), tt.insight)
			}
			if m.RecommendationPending() {
				t.Error("RecommendationPending() = true after apply")
			}
		})
	}
}

func TestApplyRecommendationIgnoresStaleSequence(t *testing.T) {
	m := newMachine(t, nil)
	stale := m.recSeq

	_, err := m.SelectMaterial(algebra)
	require.NoError(t, err)
	completeStudy(t, m)
	_, err = m.SwitchMode(Study)
	require.NoError(t, err)

	m.ApplyRecommendation(stale, recommend.Result{Minutes: 50}, nil)
	assert.Equal(t, 25*60, m.Session().PlannedSeconds)
	assert.True(t, m.RecommendationPending())
}

func TestApplyRecommendationKeepsStartedSession(t *testing.T) {
	m, effs := New(Config{})
	req, _ := find[RequestRecommendation](effs)
	_, err := m.SelectMaterial(algebra)
	require.NoError(t, err)
	tick(t, m, start(t, m), 10)

	m.ApplyRecommendation(req.Seq, recommend.Result{Minutes: 45, Insight: "Long session"}, nil)
	assert.Equal(t, 25*60, m.Session().PlannedSeconds)
	assert.Equal(t, "Long session", m.Insight())
	assert.Equal(t, 45*60, m.CanonicalSeconds(Study))
}

func TestStartRequiresMaterial(t *testing.T) {
	m := newMachine(t, nil)
	epoch := m.Epoch()

	effs, err := m.Start()
	if !errors.Is(err, ErrMaterialRequired) {
		t.Fatalf("Start() error = %v, want %v", err, ErrMaterialRequired)
	}
	if effs != nil {
		t.Errorf("Start() effects = %v, want none", effs)
	}
	if m.State() != Idle || m.Epoch() != epoch || m.Session().StartedAt != nil {
		t.Errorf("state changed after rejected start: %v epoch %d", m.State(), m.Epoch())
	}
}

func TestStartIsNoOpWhileRunning(t *testing.T) {
	m := newMachine(t, nil)
	_, _ = m.SelectMaterial(algebra)
	start(t, m)
	epoch := m.Epoch()

	effs, err := m.Start()
	require.NoError(t, err)
	assert.Nil(t, effs)
	assert.Equal(t, epoch, m.Epoch())
}

func TestTickCompletesExactlyOnce(t *testing.T) {
	m := newMachine(t, func(s *settings.Settings) { s.AutoStartBreak = false })
	m.ApplyRecommendation(m.recSeq, recommend.Result{Minutes: 5}, nil)
	_, _ = m.SelectMaterial(algebra)

	effs := start(t, m)
	var epochs []uint64
	var out []Effect
	for i := 0; i < 300; i++ {
		st, ok := find[ScheduleTick](effs)
		require.True(t, ok, "tick %d", i)
		epochs = append(epochs, st.Epoch)
		if m.Remaining() < 0 {
			t.Fatalf("Remaining() = %d at tick %d", m.Remaining(), i)
		}
		effs = m.Tick(st.Epoch)
		out = append(out, effs...)
	}

	done := all[SessionCompleted](out)
	require.Len(t, done, 1)
	assert.Equal(t, 300, done[0].Session.ElapsedSeconds)
	assert.False(t, done[0].Skipped)
	assert.Equal(t, ShortBreak, m.Mode())

	for _, e := range epochs {
		assert.Nil(t, m.Tick(e), "stale tick must be ignored")
	}
	assert.Equal(t, 0, m.Session().ElapsedSeconds)
}

func TestAutosaveCheckpoints(t *testing.T) {
	m := newMachine(t, nil)
	_, _ = m.SelectMaterial(algebra)

	var saves []int
	collect := func(effs []Effect) {
		for _, c := range all[SaveCheckpoint](effs) {
			saves = append(saves, c.Record.ElapsedSeconds)
		}
	}

	collect(tick(t, m, start(t, m), 59))
	m.Pause()
	m.Pause()
	collect(tick(t, m, start(t, m), 1))
	m.Pause()
	collect(tick(t, m, start(t, m), 60))
	m.Pause()
	m.Pause()
	collect(tick(t, m, start(t, m), 60))

	if fmt.Sprint(saves) != "[60 120 180]" {
		t.Errorf("checkpoints = %v, want [60 120 180]", saves)
	}
}

func TestCheckpointRecord(t *testing.T) {
	m := newMachine(t, nil)
	_, _ = m.SelectMaterial(algebra)

	out := tick(t, m, start(t, m), 60)
	cp, ok := find[SaveCheckpoint](out)
	require.True(t, ok)

	r := cp.Record
	assert.Equal(t, m.Session().ID, r.SessionID)
	assert.Equal(t, "local", r.UserID)
	assert.Equal(t, "study", r.Mode)
	assert.Equal(t, 1500, r.PlannedSeconds)
	assert.Equal(t, algebra.ID, r.MaterialID)
	assert.True(t, r.AIRecommended)
	assert.False(t, r.Completed)
	require.NotNil(t, r.StartedAt)
	assert.True(t, r.StartedAt.Equal(testNow))
}

func TestStaleTickAfterPause(t *testing.T) {
	m := newMachine(t, nil)
	_, _ = m.SelectMaterial(algebra)
	effs := start(t, m)
	st, _ := find[ScheduleTick](effs)

	m.Pause()
	if got := m.Tick(st.Epoch); got != nil {
		t.Errorf("Tick(stale) = %v, want nil", got)
	}
	if m.Session().ElapsedSeconds != 0 {
		t.Errorf("ElapsedSeconds = %d, want 0", m.Session().ElapsedSeconds)
	}

	resumed := start(t, m)
	st2, _ := find[ScheduleTick](resumed)
	if st2.Epoch == st.Epoch {
		t.Error("resume reused the paused epoch")
	}
}

func TestResetRestoresCanonicalDuration(t *testing.T) {
	for _, mode := range Modes {
		t.Run(string(mode), func(t *testing.T) {
			m := newMachine(t, func(s *settings.Settings) {
				s.AutoStartBreak = false
				s.ShortBreakMinutes = 7
				s.LongBreakMinutes = 20
			})
			completeStudy(t, m)
			_, err := m.SwitchMode(mode)
			require.NoError(t, err)
			if mode == Study {
				m.ApplyRecommendation(m.recSeq, recommend.Result{Minutes: 30}, nil)
			}
			_, _ = m.SelectMaterial(algebra)
			tick(t, m, start(t, m), 90)

			effs := m.Reset()
			discarded, ok := find[SessionDiscarded](effs)
			require.True(t, ok)
			assert.Equal(t, 90, discarded.Session.ElapsedSeconds)

			s := m.Session()
			if s.ElapsedSeconds != 0 {
				t.Errorf("ElapsedSeconds = %d, want 0", s.ElapsedSeconds)
			}
			if s.Remaining() != s.PlannedSeconds || s.PlannedSeconds != m.CanonicalSeconds(mode) {
				t.Errorf("Remaining = %d, Planned = %d, want %d", s.Remaining(), s.PlannedSeconds, m.CanonicalSeconds(mode))
			}
			if m.State() != Idle {
				t.Errorf("State() = %v, want %v", m.State(), Idle)
			}
			if s.ID == discarded.Session.ID {
				t.Error("reset kept the discarded session id")
			}
		})
	}
}

func TestResetIdleSessionDiscardsNothing(t *testing.T) {
	m := newMachine(t, nil)
	assert.Empty(t, m.Reset())
	assert.Equal(t, 1500, m.Remaining())
}

func TestBreaksLockedUntilStudyCompletes(t *testing.T) {
	m := newMachine(t, nil)
	for _, mode := range []Mode{ShortBreak, LongBreak} {
		if _, err := m.SwitchMode(mode); !errors.Is(err, ErrBreakLocked) {
			t.Errorf("SwitchMode(%s) error = %v, want %v", mode, err, ErrBreakLocked)
		}
		if _, err := m.RequestSwitch(mode); !errors.Is(err, ErrBreakLocked) {
			t.Errorf("RequestSwitch(%s) error = %v, want %v", mode, err, ErrBreakLocked)
		}
	}
	assert.Equal(t, Study, m.Mode())
	assert.False(t, m.BreaksUnlocked())

	completeStudy(t, m)
	assert.True(t, m.BreaksUnlocked())
	_, err := m.SwitchMode(LongBreak)
	require.NoError(t, err)
	assert.Equal(t, LongBreak, m.Mode())
}

func TestSwitchWhileRunningPausesFirst(t *testing.T) {
	m := newMachine(t, func(s *settings.Settings) { s.AutoStartBreak = false })
	completeStudy(t, m)
	_, err := m.SwitchMode(Study)
	require.NoError(t, err)
	m.ApplyRecommendation(m.recSeq, recommend.Result{Minutes: 25}, nil)

	tick(t, m, start(t, m), 600)
	_, err = m.SwitchMode(ShortBreak)
	require.ErrorIs(t, err, ErrSwitchWhileRunning)

	effs, err := m.RequestSwitch(ShortBreak)
	require.NoError(t, err)
	assert.Empty(t, effs)
	assert.Equal(t, Paused, m.State())
	assert.Equal(t, Study, m.Mode())
	assert.Equal(t, 600, m.Session().ElapsedSeconds)
	pending, ok := m.PendingSwitch()
	require.True(t, ok)
	assert.Equal(t, ShortBreak, pending)

	effs, err = m.ConfirmSwitch()
	require.NoError(t, err)
	discarded, ok := find[SessionDiscarded](effs)
	require.True(t, ok)
	assert.Equal(t, 600, discarded.Session.ElapsedSeconds)
	assert.Equal(t, Study, discarded.Session.Mode)
	assert.Equal(t, ShortBreak, m.Mode())
	assert.Equal(t, Idle, m.State())
	assert.Equal(t, 300, m.Remaining())
}

func TestCancelSwitchStaysPaused(t *testing.T) {
	m := newMachine(t, nil)
	completeStudy(t, m)
	_, _ = m.SwitchMode(Study)
	tick(t, m, start(t, m), 30)

	_, err := m.RequestSwitch(LongBreak)
	require.NoError(t, err)
	m.CancelSwitch()

	_, ok := m.PendingSwitch()
	assert.False(t, ok)
	assert.Equal(t, Paused, m.State())
	_, err = m.ConfirmSwitch()
	assert.ErrorIs(t, err, ErrNoPendingSwitch)
	assert.Equal(t, 30, m.Session().ElapsedSeconds)
}

func TestRequestSwitchToCurrentMode(t *testing.T) {
	m := newMachine(t, nil)
	_, _ = m.SelectMaterial(algebra)
	start(t, m)
	_, err := m.RequestSwitch(Study)
	require.NoError(t, err)
	_, ok := m.PendingSwitch()
	assert.False(t, ok, "switching to the current mode is a no-op")
	assert.Equal(t, Running, m.State())
}

func TestStudyCompletionAutoStartsBreak(t *testing.T) {
	m := newMachine(t, nil)
	out := completeStudy(t, m)

	saved, ok := find[SaveCompleted](out)
	require.True(t, ok)
	assert.True(t, saved.Record.Completed)
	assert.True(t, saved.Record.AIRecommended)
	assert.Equal(t, 1500, saved.Record.ElapsedSeconds)

	done, ok := find[SessionCompleted](out)
	require.True(t, ok)
	assert.Equal(t, DailyAggregate{TotalStudySeconds: 1500, CompletedSessions: 1, Streak: 1}, done.Aggregate)

	auto, ok := find[ScheduleAutoStart](out)
	require.True(t, ok)
	assert.Equal(t, DefaultAutoStartDelay, auto.After)
	assert.Equal(t, ShortBreak, m.Mode())
	assert.Equal(t, Idle, m.State())
	assert.Equal(t, 5*60, m.Remaining())
	assert.True(t, m.BreakSuggested())

	effs := m.Fire(auto.Epoch)
	_, ok = find[ScheduleTick](effs)
	assert.True(t, ok)
	assert.Equal(t, Running, m.State())
	assert.Nil(t, m.Fire(auto.Epoch), "auto-start fires once")
}

func TestStudyCompletionWithoutAutoStart(t *testing.T) {
	m := newMachine(t, func(s *settings.Settings) { s.AutoStartBreak = false })
	out := completeStudy(t, m)

	_, ok := find[ScheduleAutoStart](out)
	assert.False(t, ok)
	assert.Equal(t, ShortBreak, m.Mode())
	assert.Equal(t, Idle, m.State())
}

func TestPauseCancelsAutoStart(t *testing.T) {
	m := newMachine(t, nil)
	out := completeStudy(t, m)
	auto, _ := find[ScheduleAutoStart](out)

	m.Pause()
	assert.Nil(t, m.Fire(auto.Epoch))
	assert.Equal(t, Idle, m.State())
}

func TestLongBreakInterval(t *testing.T) {
	m := newMachine(t, func(s *settings.Settings) {
		s.AutoStartBreak = false
		s.LongBreakInterval = 2
	})

	var got []Mode
	for i := 0; i < 4; i++ {
		completeStudy(t, m)
		got = append(got, m.Mode())
		_, err := m.SwitchMode(Study)
		require.NoError(t, err)
	}
	want := []Mode{ShortBreak, LongBreak, ShortBreak, LongBreak}
	assert.Equal(t, want, got)
	assert.Equal(t, 4, m.Aggregate().Streak)
}

func TestBreakCompletionPromptsForMaterial(t *testing.T) {
	m := newMachine(t, func(s *settings.Settings) { s.AutoStartStudy = true })
	auto, _ := find[ScheduleAutoStart](completeStudy(t, m))
	effs := m.Fire(auto.Epoch)

	out := tick(t, m, effs, 300)
	_, ok := find[PromptMaterial](out)
	require.True(t, ok)
	req, ok := find[RequestRecommendation](out)
	require.True(t, ok)
	assert.Equal(t, 1, req.Input.CompletedSessions)
	assert.InDelta(t, 0.42, req.Input.HoursStudiedToday, 0.01)

	assert.Equal(t, Study, m.Mode())
	assert.False(t, m.BreakSuggested())
	assert.True(t, m.AwaitingMaterial())
	_, has := m.Material()
	assert.False(t, has)

	_, err := m.Start()
	assert.ErrorIs(t, err, ErrMaterialRequired)

	effs, err = m.SelectMaterial(Material{ID: "m-bio", Name: "Cells", Subject: "Biology"})
	require.NoError(t, err)
	_, ok = find[ScheduleTick](effs)
	assert.True(t, ok)
	assert.Equal(t, Running, m.State())
	assert.Equal(t, "m-bio", m.Session().MaterialID)
}

func TestBreakCompletionKeepsMaterial(t *testing.T) {
	m := newMachine(t, func(s *settings.Settings) { s.AutoStartBreak = false })
	completeStudy(t, m)
	out := tick(t, m, start(t, m), 300)

	_, ok := find[PromptMaterial](out)
	assert.False(t, ok)
	assert.Equal(t, Study, m.Mode())
	assert.Equal(t, Idle, m.State())
	mat, has := m.Material()
	assert.True(t, has)
	assert.Equal(t, algebra, mat)
	assert.Equal(t, algebra.ID, m.Session().MaterialID)
}

func TestSkipCompletesWithElapsed(t *testing.T) {
	m := newMachine(t, func(s *settings.Settings) { s.AutoStartBreak = false })
	_, _ = m.SelectMaterial(algebra)
	tick(t, m, start(t, m), 125)

	out := m.Skip()
	done, ok := find[SessionCompleted](out)
	require.True(t, ok)
	assert.True(t, done.Skipped)
	assert.Equal(t, 125, done.Session.ElapsedSeconds)
	assert.Equal(t, 125, m.Aggregate().TotalStudySeconds)
	assert.True(t, m.BreaksUnlocked())
	assert.Equal(t, ShortBreak, m.Mode())
}

func TestSkipIgnoresUnstartedSession(t *testing.T) {
	m := newMachine(t, nil)

	out := m.Skip()
	assert.Empty(t, out)
	_, saved := find[SaveCompleted](out)
	assert.False(t, saved)
	assert.Equal(t, Study, m.Mode())
	assert.Equal(t, Idle, m.State())
	assert.False(t, m.BreaksUnlocked())
	assert.Zero(t, m.Aggregate().CompletedSessions)
	assert.Zero(t, m.Aggregate().Streak)

	// Picking material alone does not start the session either.
	_, _ = m.SelectMaterial(algebra)
	assert.Empty(t, m.Skip())
	assert.False(t, m.BreaksUnlocked())
}

func TestOutOfRangeSettingsFallBackToDefaults(t *testing.T) {
	d := settings.Defaults()
	m := newMachine(t, func(s *settings.Settings) {
		s.ShortBreakMinutes = 0
		s.LongBreakInterval = -2
	})
	assert.Equal(t, d.ShortBreakMinutes*60, m.CanonicalSeconds(ShortBreak))

	next := d
	next.LongBreakMinutes = 0
	m.UpdateSettings(next)
	assert.Equal(t, d.LongBreakMinutes*60, m.CanonicalSeconds(LongBreak))
}

func TestMaterialLockedWhileRunning(t *testing.T) {
	m := newMachine(t, nil)
	_, _ = m.SelectMaterial(algebra)
	start(t, m)

	_, err := m.SelectMaterial(Material{ID: "other"})
	assert.ErrorIs(t, err, ErrMaterialLocked)
	assert.Equal(t, algebra.ID, m.Session().MaterialID)
}

func TestNotifyFollowsSettings(t *testing.T) {
	quiet := newMachine(t, func(s *settings.Settings) {
		s.SoundNotifications = false
		s.DesktopNotifications = false
	})
	_, ok := find[Notify](completeStudy(t, quiet))
	assert.False(t, ok)

	loud := newMachine(t, func(s *settings.Settings) { s.DesktopNotifications = false })
	n, ok := find[Notify](completeStudy(t, loud))
	require.True(t, ok)
	assert.True(t, n.Sound)
	assert.False(t, n.Desktop)
}

func TestUpdateSettingsAppliesToIdleBreak(t *testing.T) {
	m := newMachine(t, func(s *settings.Settings) { s.AutoStartBreak = false })
	completeStudy(t, m)

	s := m.Settings()
	s.ShortBreakMinutes = 10
	m.UpdateSettings(s)
	assert.Equal(t, 600, m.Remaining())
}

func TestModeHelpers(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"study", Study},
		{"short", ShortBreak},
		{"short_break", ShortBreak},
		{"long", LongBreak},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseMode("nap"); err == nil {
		t.Error("ParseMode(nap) should fail")
	}
	if Study.IsBreak() || !LongBreak.IsBreak() {
		t.Error("IsBreak mismatch")
	}
}
