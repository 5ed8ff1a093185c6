// Package persist saves study sessions. Every save carries the session's
// cumulative elapsed time keyed by session id, so saving the same
// checkpoint twice is harmless.
package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/studydesk/internal/store"
)

// LocalUserID is the single user id used until accounts exist.
const LocalUserID = "local"

// Record is one session save: an autosave checkpoint or the final save on
// completion.
type Record struct {
	SessionID      string     `json:"sessionId" binding:"required"`
	UserID         string     `json:"userId"`
	Mode           string     `json:"mode" binding:"required"`
	PlannedSeconds int        `json:"plannedDurationSeconds"`
	ElapsedSeconds int        `json:"elapsedSeconds"`
	MaterialID     string     `json:"materialId,omitempty"`
	AIRecommended  bool       `json:"aiRecommended"`
	Completed      bool       `json:"completed"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
}

// Validate checks the record is storable.
func (r Record) Validate() error {
	switch {
	case r.SessionID == "":
		return errors.New("session id is required")
	case r.Mode == "":
		return errors.New("mode is required")
	case r.ElapsedSeconds < 0 || r.PlannedSeconds < 0:
		return errors.New("durations must not be negative")
	}
	return nil
}

// Sink persists session records.
type Sink interface {
	CreateSession(ctx context.Context, rec Record) error
}

// StoreSink writes records to the local SQLite store.
type StoreSink struct {
	repo store.SessionRepo
}

// NewStoreSink creates a sink backed by repo.
func NewStoreSink(repo store.SessionRepo) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) CreateSession(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return s.repo.UpsertSession(ctx, ToStore(rec))
}

// ToStore maps a Record onto the store row, defaulting the user id.
func ToStore(rec Record) store.SessionRecord {
	userID := rec.UserID
	if userID == "" {
		userID = LocalUserID
	}
	return store.SessionRecord{
		SessionID:     rec.SessionID,
		UserID:        userID,
		Mode:          rec.Mode,
		PlannedSecs:   rec.PlannedSeconds,
		ElapsedSecs:   rec.ElapsedSeconds,
		MaterialID:    rec.MaterialID,
		AIRecommended: rec.AIRecommended,
		Completed:     rec.Completed,
		StartedAt:     rec.StartedAt,
	}
}

// FromStore maps a store row back to a Record.
func FromStore(r store.SessionRecord) Record {
	return Record{
		SessionID:      r.SessionID,
		UserID:         r.UserID,
		Mode:           r.Mode,
		PlannedSeconds: r.PlannedSecs,
		ElapsedSeconds: r.ElapsedSecs,
		MaterialID:     r.MaterialID,
		AIRecommended:  r.AIRecommended,
		Completed:      r.Completed,
		StartedAt:      r.StartedAt,
	}
}

// Discard is a Sink that drops every record.
type Discard struct{}

func (Discard) CreateSession(context.Context, Record) error { return nil }
