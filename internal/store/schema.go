package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions for the studydesk database. They are migrated with ent's
// migrate engine on Open, so adding a column here is the whole migration.

var (
	// SessionsColumns holds the columns for the "study_sessions" table.
	SessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "session_id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "mode", Type: field.TypeString},
		{Name: "planned_secs", Type: field.TypeInt, Default: 0},
		{Name: "elapsed_secs", Type: field.TypeInt, Default: 0},
		{Name: "material_id", Type: field.TypeString, Nullable: true},
		{Name: "ai_recommended", Type: field.TypeBool, Default: false},
		{Name: "completed", Type: field.TypeBool, Default: false},
		{Name: "started_at", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// SessionsTable holds the schema information for the "study_sessions" table.
	SessionsTable = &schema.Table{
		Name:       "study_sessions",
		Columns:    SessionsColumns,
		PrimaryKey: []*schema.Column{SessionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "studysession_user_id", Columns: []*schema.Column{SessionsColumns[2]}},
			{Name: "studysession_mode", Columns: []*schema.Column{SessionsColumns[3]}},
			{Name: "studysession_updated_at", Columns: []*schema.Column{SessionsColumns[11]}},
		},
	}

	// QuizAttemptsColumns holds the columns for the "quiz_attempts" table.
	QuizAttemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "quiz_id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "material_id", Type: field.TypeString, Nullable: true},
		{Name: "subject", Type: field.TypeString, Default: ""},
		{Name: "question_count", Type: field.TypeInt},
		{Name: "score", Type: field.TypeInt},
		{Name: "elapsed_secs", Type: field.TypeInt, Default: 0},
		{Name: "answers", Type: field.TypeJSON},
	}
	// QuizAttemptsTable holds the schema information for the "quiz_attempts" table.
	QuizAttemptsTable = &schema.Table{
		Name:       "quiz_attempts",
		Columns:    QuizAttemptsColumns,
		PrimaryKey: []*schema.Column{QuizAttemptsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "quizattempt_timestamp", Columns: []*schema.Column{QuizAttemptsColumns[2]}},
			{Name: "quizattempt_user_id", Columns: []*schema.Column{QuizAttemptsColumns[4]}},
		},
	}

	// AchievementsColumns holds the columns for the "achievements" table.
	AchievementsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "kind", Type: field.TypeString},
		{Name: "rarity", Type: field.TypeString},
		{Name: "source_id", Type: field.TypeString},
		{Name: "reason", Type: field.TypeString},
	}
	// AchievementsTable holds the schema information for the "achievements" table.
	AchievementsTable = &schema.Table{
		Name:       "achievements",
		Columns:    AchievementsColumns,
		PrimaryKey: []*schema.Column{AchievementsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "achievement_kind", Columns: []*schema.Column{AchievementsColumns[3]}},
			{Name: "achievement_source_id", Columns: []*schema.Column{AchievementsColumns[5]}},
		},
	}

	// LLMRequestsColumns holds the columns for the "llm_requests" table.
	LLMRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "material_id", Type: field.TypeString, Default: ""},
	}
	// LLMRequestsTable holds the schema information for the "llm_requests" table.
	LLMRequestsTable = &schema.Table{
		Name:       "llm_requests",
		Columns:    LLMRequestsColumns,
		PrimaryKey: []*schema.Column{LLMRequestsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequest_purpose", Columns: []*schema.Column{LLMRequestsColumns[5]}},
			{Name: "llmrequest_success", Columns: []*schema.Column{LLMRequestsColumns[9]}},
		},
	}

	// MaterialsColumns holds the columns for the "materials" table.
	MaterialsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "material_id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "parent_id", Type: field.TypeString, Nullable: true},
		{Name: "name", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString, Default: ""},
		{Name: "content", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	// MaterialsTable holds the schema information for the "materials" table.
	MaterialsTable = &schema.Table{
		Name:       "materials",
		Columns:    MaterialsColumns,
		PrimaryKey: []*schema.Column{MaterialsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "material_user_id_kind", Columns: []*schema.Column{MaterialsColumns[2], MaterialsColumns[3]}},
		},
	}

	// EventSequenceColumns holds the columns for the "event_sequence" table.
	EventSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	// EventSequenceTable is a single-row table holding the next global
	// event sequence number.
	EventSequenceTable = &schema.Table{
		Name:       "event_sequence",
		Columns:    EventSequenceColumns,
		PrimaryKey: []*schema.Column{EventSequenceColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		SessionsTable,
		QuizAttemptsTable,
		AchievementsTable,
		LLMRequestsTable,
		MaterialsTable,
		EventSequenceTable,
	}
)
