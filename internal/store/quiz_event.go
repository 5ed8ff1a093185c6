package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var quizSelectColumns = []string{
	"sequence", "timestamp", "quiz_id", "user_id", "material_id", "subject",
	"question_count", "score", "elapsed_secs", "answers",
}

func (r *eventRepo) AppendQuizAttempt(ctx context.Context, data QuizAttemptData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	answers := data.Answers
	if answers == nil {
		answers = []QuizAnswerData{}
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal quiz answers: %w", err)
	}

	ts := data.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := r.b.Insert(QuizAttemptsTable.Name).
		Columns(quizSelectColumns...).
		Values(
			seqNum, ts.UTC(), data.QuizID, data.UserID, nullString(data.MaterialID),
			data.Subject, data.QuestionCount, data.Score, data.ElapsedSecs, string(answersJSON),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz attempt: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuizAttempts(ctx context.Context, opts QueryOpts) ([]QuizAttemptRecord, error) {
	sel := r.b.Select(quizSelectColumns...).
		From(r.b.Table(QuizAttemptsTable.Name)).
		OrderBy(entsql.Desc("sequence"))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz attempts: %w", err)
	}
	defer rows.Close()

	var records []QuizAttemptRecord
	for rows.Next() {
		var (
			rec        QuizAttemptRecord
			materialID sql.NullString
			answers    string
		)
		err := rows.Scan(
			&rec.Sequence, &rec.Timestamp, &rec.QuizID, &rec.UserID, &materialID,
			&rec.Subject, &rec.QuestionCount, &rec.Score, &rec.ElapsedSecs, &answers,
		)
		if err != nil {
			return nil, fmt.Errorf("scan quiz attempt: %w", err)
		}
		rec.MaterialID = materialID.String
		if err := json.Unmarshal([]byte(answers), &rec.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal quiz answers: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
