package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by single-row lookups when no row matches.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SessionRecord is one row of the study_sessions table. A row is written
// on every autosave checkpoint and once more on completion, always keyed
// by SessionID.
type SessionRecord struct {
	SessionID     string
	UserID        string
	Mode          string
	PlannedSecs   int
	ElapsedSecs   int
	MaterialID    string
	AIRecommended bool
	Completed     bool
	StartedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SessionFilter narrows QuerySessions. Zero values mean "any".
type SessionFilter struct {
	UserID        string
	Mode          string
	CompletedOnly bool
	From          time.Time // updated_at >= From
	To            time.Time // updated_at <= To
	Limit         int
}

// SessionRepo persists study sessions.
type SessionRepo interface {
	// UpsertSession inserts the session or, when a row with the same
	// SessionID exists, overwrites its progress fields. CreatedAt of an
	// existing row is preserved.
	UpsertSession(ctx context.Context, rec SessionRecord) error

	// GetSession returns the session with the given id or ErrNotFound.
	GetSession(ctx context.Context, sessionID string) (*SessionRecord, error)

	// QuerySessions returns sessions newest first.
	QuerySessions(ctx context.Context, f SessionFilter) ([]SessionRecord, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	MaterialID   string // empty unless the request was about one file
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a persisted LLM request.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageRecord aggregates LLM requests sharing a purpose or a model.
type LLMUsageRecord struct {
	Group        string
	Provider     string
	Requests     int
	Failures     int
	InputTokens  int64
	OutputTokens int64
	AvgLatencyMs float64
}

// AchievementEventData captures the data for an achievement award.
type AchievementEventData struct {
	Kind     string
	Rarity   string
	SourceID string // session or quiz id that earned it
	Reason   string
}

// AchievementRecord is a persisted achievement.
type AchievementRecord struct {
	AchievementEventData
	Sequence  int64
	Timestamp time.Time
}

// QuizAnswerData is one recorded answer inside a quiz attempt.
type QuizAnswerData struct {
	QuestionIndex int  `json:"question_index"`
	Selected      *int `json:"selected,omitempty"`
	CorrectIndex  int  `json:"correct_index"`
	Correct       bool `json:"correct"`
	TimedOut      bool `json:"timed_out"`
}

// QuizAttemptData captures one finished quiz.
type QuizAttemptData struct {
	QuizID        string
	UserID        string
	MaterialID    string
	Subject       string
	QuestionCount int
	Score         int
	ElapsedSecs   int
	Answers       []QuizAnswerData
	Timestamp     time.Time // zero means now
}

// QuizAttemptRecord is a persisted quiz attempt.
type QuizAttemptRecord struct {
	QuizAttemptData
	Sequence int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM request events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns a single LLM request event by id or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates requests grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageRecord, error)

	// LLMUsageByModel aggregates requests grouped by provider and model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsageRecord, error)

	// AppendAchievement records an achievement award.
	AppendAchievement(ctx context.Context, data AchievementEventData) error

	// QueryAchievements returns achievements newest first.
	QueryAchievements(ctx context.Context, opts QueryOpts) ([]AchievementRecord, error)

	// AchievementCounts returns counts by kind and the total.
	AchievementCounts(ctx context.Context) (map[string]int, int, error)

	// HasAchievement reports whether an achievement of the given kind exists.
	HasAchievement(ctx context.Context, kind string) (bool, error)

	// AppendQuizAttempt records a finished quiz.
	AppendQuizAttempt(ctx context.Context, data QuizAttemptData) error

	// QueryQuizAttempts returns quiz attempts newest first.
	QueryQuizAttempts(ctx context.Context, opts QueryOpts) ([]QuizAttemptRecord, error)
}

// Material kinds.
const (
	KindFile   = "file"
	KindFolder = "folder"
)

// MaterialRecord is a study file or folder owned by a user.
type MaterialRecord struct {
	ID        string
	UserID    string
	Kind      string
	ParentID  string
	Name      string
	Subject   string
	Content   string
	CreatedAt time.Time
}

// MaterialRepo persists study materials.
type MaterialRepo interface {
	CreateMaterial(ctx context.Context, rec MaterialRecord) error
	GetMaterial(ctx context.Context, id string) (*MaterialRecord, error)
	// ListMaterials returns a user's materials of one kind ordered by name.
	ListMaterials(ctx context.Context, userID, kind string) ([]MaterialRecord, error)
	DeleteMaterial(ctx context.Context, id string) error
}
