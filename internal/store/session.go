package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type sessionRepo struct {
	db *sql.DB
	b  *entsql.DialectBuilder
}

var sessionSelectColumns = []string{
	"session_id", "user_id", "mode", "planned_secs", "elapsed_secs", "material_id",
	"ai_recommended", "completed", "started_at", "created_at", "updated_at",
}

func (r *sessionRepo) UpsertSession(ctx context.Context, rec SessionRecord) error {
	if rec.SessionID == "" {
		return errors.New("upsert session: empty session id")
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}

	var startedAt any
	if rec.StartedAt != nil {
		startedAt = rec.StartedAt.UTC()
	}

	query, args := r.b.Insert(SessionsTable.Name).
		Columns(sessionSelectColumns...).
		Values(
			rec.SessionID, rec.UserID, rec.Mode, rec.PlannedSecs, rec.ElapsedSecs,
			nullString(rec.MaterialID), rec.AIRecommended, rec.Completed, startedAt,
			rec.CreatedAt.UTC(), rec.UpdatedAt.UTC(),
		).
		OnConflict(
			entsql.ConflictColumns("session_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("mode")
				u.SetExcluded("planned_secs")
				u.SetExcluded("elapsed_secs")
				u.SetExcluded("material_id")
				u.SetExcluded("ai_recommended")
				u.SetExcluded("completed")
				u.SetExcluded("started_at")
				u.SetExcluded("updated_at")
			}),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert session %s: %w", rec.SessionID, err)
	}
	return nil
}

func (r *sessionRepo) GetSession(ctx context.Context, sessionID string) (*SessionRecord, error) {
	t := r.b.Table(SessionsTable.Name)
	query, args := r.b.Select(sessionSelectColumns...).
		From(t).
		Where(entsql.EQ("session_id", sessionID)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	recs, err := scanSessions(rows)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return &recs[0], nil
}

func (r *sessionRepo) QuerySessions(ctx context.Context, f SessionFilter) ([]SessionRecord, error) {
	sel := r.b.Select(sessionSelectColumns...).
		From(r.b.Table(SessionsTable.Name)).
		OrderBy(entsql.Desc("updated_at"), entsql.Desc("id"))

	if f.UserID != "" {
		sel.Where(entsql.EQ("user_id", f.UserID))
	}
	if f.Mode != "" {
		sel.Where(entsql.EQ("mode", f.Mode))
	}
	if f.CompletedOnly {
		sel.Where(entsql.EQ("completed", true))
	}
	if !f.From.IsZero() {
		sel.Where(entsql.GTE("updated_at", f.From.UTC()))
	}
	if !f.To.IsZero() {
		sel.Where(entsql.LTE("updated_at", f.To.UTC()))
	}
	if f.Limit > 0 {
		sel.Limit(f.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	recs, err := scanSessions(rows)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	return recs, nil
}

func scanSessions(rows *sql.Rows) ([]SessionRecord, error) {
	defer rows.Close()

	var recs []SessionRecord
	for rows.Next() {
		var (
			rec        SessionRecord
			materialID sql.NullString
			startedAt  sql.NullTime
		)
		err := rows.Scan(
			&rec.SessionID, &rec.UserID, &rec.Mode, &rec.PlannedSecs, &rec.ElapsedSecs,
			&materialID, &rec.AIRecommended, &rec.Completed, &startedAt,
			&rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		rec.MaterialID = materialID.String
		if startedAt.Valid {
			t := startedAt.Time
			rec.StartedAt = &t
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// nullString maps "" to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
