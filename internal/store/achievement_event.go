package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAchievement(ctx context.Context, data AchievementEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := r.b.Insert(AchievementsTable.Name).
		Columns("sequence", "timestamp", "kind", "rarity", "source_id", "reason").
		Values(seqNum, time.Now().UTC(), data.Kind, data.Rarity, data.SourceID, data.Reason).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save achievement: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAchievements(ctx context.Context, opts QueryOpts) ([]AchievementRecord, error) {
	sel := r.b.Select("sequence", "timestamp", "kind", "rarity", "source_id", "reason").
		From(r.b.Table(AchievementsTable.Name)).
		OrderBy(entsql.Desc("sequence"))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	var records []AchievementRecord
	for rows.Next() {
		var a AchievementRecord
		if err := rows.Scan(&a.Sequence, &a.Timestamp, &a.Kind, &a.Rarity, &a.SourceID, &a.Reason); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

func (r *eventRepo) AchievementCounts(ctx context.Context) (map[string]int, int, error) {
	query, args := r.b.Select("kind").
		From(r.b.Table(AchievementsTable.Name)).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query achievement counts: %w", err)
	}
	defer rows.Close()

	byKind := make(map[string]int)
	total := 0
	for rows.Next() {
		var kind string
		if err := rows.Scan(&kind); err != nil {
			return nil, 0, fmt.Errorf("scan achievement kind: %w", err)
		}
		byKind[kind]++
		total++
	}
	return byKind, total, rows.Err()
}

func (r *eventRepo) HasAchievement(ctx context.Context, kind string) (bool, error) {
	query, args := r.b.Select("id").
		From(r.b.Table(AchievementsTable.Name)).
		Where(entsql.EQ("kind", kind)).
		Limit(1).
		Query()

	var id int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, fmt.Errorf("has achievement %s: %w", kind, err)
	}
	return true, nil
}
