package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out the global sequence shared by every event
// table (quiz attempts, achievements, LLM requests) so rows from different
// tables merge into one timeline. The store holds a single connection, so
// the counter is the only writer of event_sequence and can cache the next
// value in memory.
type sequenceCounter struct {
	mu   sync.Mutex
	db   *sql.DB
	b    *entsql.DialectBuilder
	next int64
}

const sequenceRow = 1

func newSequenceCounter(ctx context.Context, db *sql.DB, b *entsql.DialectBuilder) (*sequenceCounter, error) {
	sc := &sequenceCounter{db: db, b: b}

	query, args := b.Select("next_val").
		From(b.Table(EventSequenceTable.Name)).
		Where(entsql.EQ("id", sequenceRow)).
		Query()
	err := db.QueryRowContext(ctx, query, args...).Scan(&sc.next)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		sc.next = 1
		query, args = b.Insert(EventSequenceTable.Name).
			Columns("id", "next_val").
			Values(sequenceRow, sc.next).
			Query()
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("seed event sequence: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("load event sequence: %w", err)
	}
	return sc, nil
}

// Next returns the next sequence number. The bump is persisted before the
// number is handed out, so a crash can skip numbers but never repeat one.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	query, args := sc.b.Update(EventSequenceTable.Name).
		Set("next_val", sc.next+1).
		Where(entsql.EQ("id", sequenceRow)).
		Query()
	if _, err := sc.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("advance event sequence: %w", err)
	}
	n := sc.next
	sc.next++
	return n, nil
}
