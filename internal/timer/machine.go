// Package timer implements the study session timer: study and break modes,
// the per-second countdown, periodic autosave checkpoints and completion
// handling.
//
// Machine is synchronous. Every operation returns the Effects its owner
// must carry out (schedule a tick, request a recommendation, save a
// session). Scheduled callbacks carry the epoch they were created under;
// pausing, resetting, switching and completing bump the epoch, so any
// callback from before that point is ignored.
package timer

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/studydesk/internal/persist"
	"github.com/abhisek/studydesk/internal/recommend"
	"github.com/abhisek/studydesk/internal/settings"
)

const (
	// TickInterval is the countdown resolution.
	TickInterval = time.Second
	// CheckpointEvery is the autosave period in elapsed session seconds.
	CheckpointEvery = 60
	// DefaultAutoStartDelay is the pause between a completion and the
	// automatic start of the next session.
	DefaultAutoStartDelay = 3 * time.Second
)

// Config configures a Machine.
type Config struct {
	Settings       settings.Settings
	Clock          func() time.Time
	NewID          func() string
	AutoStartDelay time.Duration
	UserID         string
}

func (c Config) withDefaults() Config {
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.NewID == nil {
		c.NewID = uuid.NewString
	}
	if c.AutoStartDelay <= 0 {
		c.AutoStartDelay = DefaultAutoStartDelay
	}
	if c.UserID == "" {
		c.UserID = persist.LocalUserID
	}
	if c.Settings == (settings.Settings{}) {
		c.Settings = settings.Defaults()
	}
	c.Settings = c.Settings.Normalize()
	return c
}

// Machine is the timer state machine. It is not safe for concurrent use;
// a single owner drives it.
type Machine struct {
	cfg      Config
	settings settings.Settings

	mode    Mode
	state   RunState
	session Session
	epoch   uint64

	material         *Material
	awaitingMaterial bool
	autoStartPending bool
	pendingSwitch    *Mode
	lastCheckpoint   int

	studyCompleted bool
	breakSuggested bool
	sinceLongBreak int
	aggregate      DailyAggregate

	recSeq     uint64
	recPending bool
	recMinutes int
	// recFromRecommender is false while recMinutes is the fallback.
	recFromRecommender bool
	insight            string
	method             string
}

// New creates a machine in Study mode. The returned effects request the
// first recommendation.
func New(cfg Config) (*Machine, []Effect) {
	cfg = cfg.withDefaults()
	m := &Machine{
		cfg:        cfg,
		settings:   cfg.Settings,
		recMinutes: recommend.DefaultMinutes,
		method:     recommend.MethodDefault,
	}
	return m, m.enterMode(Study)
}

func (m *Machine) Mode() Mode                  { return m.mode }
func (m *Machine) State() RunState             { return m.state }
func (m *Machine) Session() Session            { return m.session }
func (m *Machine) Remaining() int              { return m.session.Remaining() }
func (m *Machine) Epoch() uint64               { return m.epoch }
func (m *Machine) Aggregate() DailyAggregate   { return m.aggregate }
func (m *Machine) Settings() settings.Settings { return m.settings }

// Insight is the text that came with the latest recommendation.
func (m *Machine) Insight() string { return m.insight }

// RecommendationMethod is the Method of the latest recommendation.
func (m *Machine) RecommendationMethod() string { return m.method }

// RecommendationPending reports whether a requested recommendation has not
// come back yet.
func (m *Machine) RecommendationPending() bool { return m.recPending }

// BreaksUnlocked reports whether a study session has completed in this run.
func (m *Machine) BreaksUnlocked() bool { return m.studyCompleted }

// BreakSuggested is set after a study session completes and cleared when the
// following break completes.
func (m *Machine) BreakSuggested() bool { return m.breakSuggested }

// AwaitingMaterial reports whether the next study session will start as soon
// as material is selected.
func (m *Machine) AwaitingMaterial() bool { return m.awaitingMaterial }

func (m *Machine) Material() (Material, bool) {
	if m.material == nil {
		return Material{}, false
	}
	return *m.material, true
}

func (m *Machine) PendingSwitch() (Mode, bool) {
	if m.pendingSwitch == nil {
		return "", false
	}
	return *m.pendingSwitch, true
}

// Progress is the completed fraction of the current session in [0, 1].
func (m *Machine) Progress() float64 {
	if m.session.PlannedSeconds <= 0 {
		return 0
	}
	p := float64(m.session.ElapsedSeconds) / float64(m.session.PlannedSeconds)
	if p > 1 {
		return 1
	}
	return p
}

// CanonicalSeconds is the full duration of a fresh session in mode.
func (m *Machine) CanonicalSeconds(mode Mode) int {
	switch mode {
	case ShortBreak:
		return m.settings.ShortBreakMinutes * 60
	case LongBreak:
		return m.settings.LongBreakMinutes * 60
	}
	return m.recMinutes * 60
}

// Start begins or resumes the countdown. It does nothing unless the machine
// is Idle or Paused with time remaining. Study sessions need material.
func (m *Machine) Start() ([]Effect, error) {
	if m.state != Idle && m.state != Paused {
		return nil, nil
	}
	if m.session.Remaining() <= 0 {
		return nil, nil
	}
	if m.mode == Study && m.material == nil {
		return nil, ErrMaterialRequired
	}

	m.state = Running
	m.epoch++
	m.autoStartPending = false
	m.awaitingMaterial = false
	m.pendingSwitch = nil
	if m.session.StartedAt == nil {
		now := m.cfg.Clock().UTC()
		m.session.StartedAt = &now
	}
	return []Effect{ScheduleTick{Epoch: m.epoch, After: TickInterval}}, nil
}

// Pause stops a running countdown and cancels a pending auto-start.
func (m *Machine) Pause() {
	if m.state == Running {
		m.state = Paused
		m.epoch++
		return
	}
	if m.autoStartPending {
		m.autoStartPending = false
		m.epoch++
	}
}

// Reset pauses and restores the current mode's full duration. A session that
// had started is discarded.
func (m *Machine) Reset() []Effect {
	m.Pause()
	var effects []Effect
	if m.session.StartedAt != nil {
		effects = append(effects, SessionDiscarded{Session: m.session})
	}
	m.epoch++
	m.state = Idle
	m.autoStartPending = false
	m.pendingSwitch = nil
	m.newSession()
	return effects
}

// Skip completes the current session now with the elapsed time so far.
func (m *Machine) Skip() []Effect {
	if m.session.StartedAt == nil || m.state == Completing {
		return nil
	}
	return m.complete(true)
}

// SwitchMode discards the current session and enters target. Breaks stay
// locked until a study session completes, and a running session must be
// paused first (see RequestSwitch).
func (m *Machine) SwitchMode(target Mode) ([]Effect, error) {
	if target == m.mode {
		return nil, nil
	}
	if target.IsBreak() && !m.studyCompleted {
		return nil, ErrBreakLocked
	}
	if m.state == Running {
		return nil, ErrSwitchWhileRunning
	}

	var effects []Effect
	if m.session.StartedAt != nil {
		effects = append(effects, SessionDiscarded{Session: m.session})
	}
	return append(effects, m.enterMode(target)...), nil
}

// RequestSwitch is the pause-then-switch operation. A running session is
// paused and the switch waits for ConfirmSwitch or CancelSwitch; otherwise
// it switches at once.
func (m *Machine) RequestSwitch(target Mode) ([]Effect, error) {
	if target == m.mode {
		return nil, nil
	}
	if target.IsBreak() && !m.studyCompleted {
		return nil, ErrBreakLocked
	}
	if m.state != Running {
		return m.SwitchMode(target)
	}
	m.Pause()
	m.pendingSwitch = &target
	return nil, nil
}

// ConfirmSwitch applies the switch recorded by RequestSwitch.
func (m *Machine) ConfirmSwitch() ([]Effect, error) {
	if m.pendingSwitch == nil {
		return nil, ErrNoPendingSwitch
	}
	target := *m.pendingSwitch
	m.pendingSwitch = nil
	return m.SwitchMode(target)
}

// CancelSwitch drops a pending switch. The session stays paused.
func (m *Machine) CancelSwitch() {
	m.pendingSwitch = nil
}

// Tick advances a running session by one second.
func (m *Machine) Tick(epoch uint64) []Effect {
	if epoch != m.epoch || m.state != Running {
		return nil
	}
	if m.session.ElapsedSeconds < m.session.PlannedSeconds {
		m.session.ElapsedSeconds++
	}
	if m.session.Remaining() == 0 {
		return m.complete(false)
	}

	var effects []Effect
	if e := m.session.ElapsedSeconds; e%CheckpointEvery == 0 && e > m.lastCheckpoint {
		m.lastCheckpoint = e
		effects = append(effects, SaveCheckpoint{Record: m.record(false)})
	}
	return append(effects, ScheduleTick{Epoch: m.epoch, After: TickInterval})
}

// Fire runs a scheduled auto-start.
func (m *Machine) Fire(epoch uint64) []Effect {
	if epoch != m.epoch || !m.autoStartPending {
		return nil
	}
	m.autoStartPending = false
	effects, _ := m.Start()
	return effects
}

// ApplyRecommendation delivers the answer to RequestRecommendation(seq).
// Errors and invalid minutes fall back to the default duration. The new
// duration only replaces an untouched idle Study session.
func (m *Machine) ApplyRecommendation(seq uint64, res recommend.Result, err error) {
	if seq != m.recSeq {
		return
	}
	m.recPending = false

	fromRecommender := true
	if err != nil || !recommend.Valid(float64(res.Minutes)) {
		res = recommend.Fallback()
		fromRecommender = false
	} else {
		res.Minutes = recommend.Clamp(float64(res.Minutes))
	}
	m.recMinutes = res.Minutes
	m.recFromRecommender = fromRecommender
	m.insight = res.Insight
	m.method = res.Method

	if m.mode == Study && m.state == Idle && m.session.ElapsedSeconds == 0 {
		m.session.PlannedSeconds = m.recMinutes * 60
		m.session.AIRecommended = fromRecommender
	}
}

// SelectMaterial sets the material for study sessions. When the machine is
// waiting for material after a break, the study session starts.
func (m *Machine) SelectMaterial(mat Material) ([]Effect, error) {
	if m.state == Running {
		return nil, ErrMaterialLocked
	}
	m.material = &mat
	if m.mode == Study {
		m.session.MaterialID = mat.ID
	}
	if m.awaitingMaterial && m.mode == Study && m.state == Idle {
		m.awaitingMaterial = false
		return m.Start()
	}
	return nil, nil
}

// UpdateSettings replaces the settings. An untouched idle break picks up a
// changed preset.
func (m *Machine) UpdateSettings(s settings.Settings) {
	m.settings = s.Normalize()
	if m.mode.IsBreak() && m.state == Idle && m.session.ElapsedSeconds == 0 {
		m.session.PlannedSeconds = m.CanonicalSeconds(m.mode)
	}
}

func (m *Machine) complete(skipped bool) []Effect {
	m.state = Completing
	m.epoch++
	m.pendingSwitch = nil
	m.autoStartPending = false

	done := m.session
	effects := []Effect{SaveCompleted{Record: m.record(true)}}

	if m.mode == Study {
		m.aggregate.CompletedSessions++
		m.aggregate.Streak++
		m.aggregate.TotalStudySeconds += done.ElapsedSeconds
		m.studyCompleted = true
		m.breakSuggested = true
		m.sinceLongBreak++

		next := ShortBreak
		if m.sinceLongBreak >= m.settings.LongBreakInterval {
			next = LongBreak
			m.sinceLongBreak = 0
		}
		effects = append(effects, SessionCompleted{Session: done, Skipped: skipped, Aggregate: m.aggregate})
		effects = m.appendNotify(effects, "Study session complete", "Time for a "+next.Label()+".")
		effects = append(effects, m.enterMode(next)...)
		if m.settings.AutoStartBreak {
			m.autoStartPending = true
			effects = append(effects, ScheduleAutoStart{Epoch: m.epoch, After: m.cfg.AutoStartDelay})
		}
		return effects
	}

	m.breakSuggested = false
	effects = append(effects, SessionCompleted{Session: done, Skipped: skipped, Aggregate: m.aggregate})
	effects = m.appendNotify(effects, done.Mode.Label()+" over", "Ready for the next study session.")
	effects = append(effects, m.enterMode(Study)...)
	if m.settings.AutoStartStudy {
		m.material = nil
		m.session.MaterialID = ""
		m.awaitingMaterial = true
		effects = append(effects, PromptMaterial{})
	}
	return effects
}

func (m *Machine) appendNotify(effects []Effect, title, body string) []Effect {
	if !m.settings.SoundNotifications && !m.settings.DesktopNotifications {
		return effects
	}
	return append(effects, Notify{
		Title:   title,
		Body:    body,
		Sound:   m.settings.SoundNotifications,
		Desktop: m.settings.DesktopNotifications,
	})
}

// enterMode loads a fresh idle session for mode. Entering Study requests a
// recommendation.
func (m *Machine) enterMode(mode Mode) []Effect {
	m.mode = mode
	m.state = Idle
	m.epoch++
	m.pendingSwitch = nil
	m.awaitingMaterial = false
	m.autoStartPending = false
	m.newSession()

	if mode != Study {
		return nil
	}
	m.recSeq++
	m.recPending = true
	return []Effect{RequestRecommendation{
		Seq:   m.recSeq,
		Input: m.aggregate.RecommendationInput(m.cfg.Clock()),
	}}
}

func (m *Machine) newSession() {
	m.session = Session{
		ID:             m.cfg.NewID(),
		Mode:           m.mode,
		PlannedSeconds: m.CanonicalSeconds(m.mode),
	}
	if m.mode == Study {
		m.session.AIRecommended = m.recFromRecommender
		if m.material != nil {
			m.session.MaterialID = m.material.ID
		}
	}
	m.lastCheckpoint = 0
}

func (m *Machine) record(completed bool) persist.Record {
	s := m.session
	return persist.Record{
		SessionID:      s.ID,
		UserID:         m.cfg.UserID,
		Mode:           string(s.Mode),
		PlannedSeconds: s.PlannedSeconds,
		ElapsedSeconds: s.ElapsedSeconds,
		MaterialID:     s.MaterialID,
		AIRecommended:  s.AIRecommended,
		Completed:      completed,
		StartedAt:      s.StartedAt,
	}
}
