package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by the SQL builder and the global
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	b   *entsql.DialectBuilder
	seq *sequenceCounter
}

var llmSelectColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose", "input_tokens",
	"output_tokens", "latency_ms", "success", "error_message", "request_body",
	"response_body", "material_id",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := r.b.Insert(LLMRequestsTable.Name).
		Columns(llmSelectColumns[1:]...).
		Values(
			seqNum, time.Now().UTC(), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
			data.ErrorMessage, data.RequestBody, data.ResponseBody, data.MaterialID,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	sel := r.b.Select(llmSelectColumns...).
		From(r.b.Table(LLMRequestsTable.Name)).
		OrderBy(entsql.Desc("sequence"))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	recs, err := scanLLMEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return recs, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error) {
	query, args := r.b.Select(llmSelectColumns...).
		From(r.b.Table(LLMRequestsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	recs, err := scanLLMEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return &recs[0], nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageRecord, error) {
	return r.llmUsage(ctx, func(e LLMEventRecord) (string, string) {
		return e.Purpose, ""
	})
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsageRecord, error) {
	return r.llmUsage(ctx, func(e LLMEventRecord) (string, string) {
		return e.Model, e.Provider
	})
}

// llmUsage folds every event into per-group totals. Request volume for a
// single user stays small, so aggregating in Go keeps the query trivial.
func (r *eventRepo) llmUsage(ctx context.Context, key func(LLMEventRecord) (group, provider string)) ([]LLMUsageRecord, error) {
	events, err := r.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		return nil, err
	}

	type bucket struct {
		LLMUsageRecord
		latency int64
	}
	byKey := make(map[string]*bucket)
	for _, e := range events {
		group, provider := key(e)
		k := provider + "\x00" + group
		b, ok := byKey[k]
		if !ok {
			b = &bucket{LLMUsageRecord: LLMUsageRecord{Group: group, Provider: provider}}
			byKey[k] = b
		}
		b.Requests++
		if !e.Success {
			b.Failures++
		}
		b.InputTokens += int64(e.InputTokens)
		b.OutputTokens += int64(e.OutputTokens)
		b.latency += e.LatencyMs
	}

	out := make([]LLMUsageRecord, 0, len(byKey))
	for _, b := range byKey {
		rec := b.LLMUsageRecord
		if rec.Requests > 0 {
			rec.AvgLatencyMs = float64(b.latency) / float64(rec.Requests)
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Requests != out[j].Requests {
			return out[i].Requests > out[j].Requests
		}
		return out[i].Group < out[j].Group
	})
	return out, nil
}

func scanLLMEvents(rows *sql.Rows) ([]LLMEventRecord, error) {
	defer rows.Close()

	var recs []LLMEventRecord
	for rows.Next() {
		var e LLMEventRecord
		err := rows.Scan(
			&e.ID, &e.Sequence, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success,
			&e.ErrorMessage, &e.RequestBody, &e.ResponseBody, &e.MaterialID,
		)
		if err != nil {
			return nil, err
		}
		recs = append(recs, e)
	}
	return recs, rows.Err()
}

// applyQueryOpts adds the common sequence/timestamp filters and limit.
func applyQueryOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
}
