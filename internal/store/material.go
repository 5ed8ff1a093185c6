package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type materialRepo struct {
	db *sql.DB
	b  *entsql.DialectBuilder
}

var materialSelectColumns = []string{
	"material_id", "user_id", "kind", "parent_id", "name", "subject", "content", "created_at",
}

func (r *materialRepo) CreateMaterial(ctx context.Context, rec MaterialRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	query, args := r.b.Insert(MaterialsTable.Name).
		Columns(materialSelectColumns...).
		Values(
			rec.ID, rec.UserID, rec.Kind, nullString(rec.ParentID), rec.Name,
			rec.Subject, rec.Content, rec.CreatedAt.UTC(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

func (r *materialRepo) GetMaterial(ctx context.Context, id string) (*MaterialRecord, error) {
	query, args := r.b.Select(materialSelectColumns...).
		From(r.b.Table(MaterialsTable.Name)).
		Where(entsql.EQ("material_id", id)).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get material: %w", err)
	}
	recs, err := scanMaterials(rows)
	if err != nil {
		return nil, fmt.Errorf("get material: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return &recs[0], nil
}

func (r *materialRepo) ListMaterials(ctx context.Context, userID, kind string) ([]MaterialRecord, error) {
	query, args := r.b.Select(materialSelectColumns...).
		From(r.b.Table(MaterialsTable.Name)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("kind", kind))).
		OrderBy("name").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	recs, err := scanMaterials(rows)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return recs, nil
}

func (r *materialRepo) DeleteMaterial(ctx context.Context, id string) error {
	query, args := r.b.Delete(MaterialsTable.Name).
		Where(entsql.EQ("material_id", id)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMaterials(rows *sql.Rows) ([]MaterialRecord, error) {
	defer rows.Close()

	var recs []MaterialRecord
	for rows.Next() {
		var (
			m        MaterialRecord
			parentID sql.NullString
		)
		err := rows.Scan(&m.ID, &m.UserID, &m.Kind, &parentID, &m.Name, &m.Subject, &m.Content, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		m.ParentID = parentID.String
		recs = append(recs, m)
	}
	return recs, rows.Err()
}
