package postgres

import (
	"context"
	"database/sql"
	"errors"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type handbookStore struct {
	s *Store
}

var _ storage.HandbookStore = (*handbookStore)(nil)

const handbookCols = `id, project_id, title, password, "order", created_at, updated_at`

var handbookListSpec = listSpec{
	selectBase: `SELECT ` + handbookCols + ` FROM handbooks`,
	fields: map[string]string{
		"id":        "id",
		"projectId": "project_id",
		"title":     "title",
		"order":     `"order"`,
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
}

func scanHandbook(row interface{ Scan(...any) error }) (*model.Handbook, error) {
	var h model.Handbook
	var projectID sql.NullString
	if err := row.Scan(&h.ID, &projectID, &h.Title, &h.Password, &h.Order, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	h.ProjectID = projectID.String
	return &h, nil
}

func (r *handbookStore) Create(ctx context.Context, h *model.Handbook) (*model.Handbook, error) {
	rec := *h
	if err := schema.ValidateHandbook(&rec); err != nil {
		return nil, err
	}
	now := r.s.now()
	rec.ID = r.s.newID()
	rec.CreatedAt, rec.UpdatedAt = now, now

	err := withTx(ctx, r.s.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM handbooks`).Scan(&rec.Order); err != nil {
			return err
		}
		const q = `
			INSERT INTO handbooks (` + handbookCols + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err := tx.ExecContext(ctx, q,
			rec.ID, nullStr(rec.ProjectID), rec.Title, rec.Password, rec.Order, rec.CreatedAt, rec.UpdatedAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *handbookStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.Handbook, error) {
	query, args, err := buildList(handbookListSpec, q)
	if err != nil {
		return nil, err
	}
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Handbook, 0)
	for rows.Next() {
		h, err := scanHandbook(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *h)
	}
	return items, rows.Err()
}

func (r *handbookStore) FindByID(ctx context.Context, id string) (*model.Handbook, error) {
	const q = `SELECT ` + handbookCols + ` FROM handbooks WHERE id = $1`
	h, err := scanHandbook(r.s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Entity: "handbook", ID: id}
	}
	return h, err
}

func (r *handbookStore) FindByProject(ctx context.Context, projectID string) ([]model.Handbook, error) {
	const q = `SELECT ` + handbookCols + ` FROM handbooks WHERE project_id = $1 ORDER BY "order" ASC, id ASC`
	rows, err := r.s.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Handbook, 0)
	for rows.Next() {
		h, err := scanHandbook(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *h)
	}
	return items, rows.Err()
}

func (r *handbookStore) Update(ctx context.Context, id string, p storage.HandbookPatch) (*model.Handbook, error) {
	var out *model.Handbook
	err := withTx(ctx, r.s.db, func(tx *sql.Tx) error {
		const sel = `SELECT ` + handbookCols + ` FROM handbooks WHERE id = $1 FOR UPDATE`
		h, err := scanHandbook(tx.QueryRowContext(ctx, sel, id))
		if errors.Is(err, sql.ErrNoRows) {
			return &storage.NotFoundError{Entity: "handbook", ID: id}
		}
		if err != nil {
			return err
		}
		if p.ProjectID != nil {
			h.ProjectID = *p.ProjectID
		}
		if p.Title != nil {
			h.Title = *p.Title
		}
		if p.Password != nil {
			h.Password = *p.Password
		}
		if err := schema.ValidateHandbook(h); err != nil {
			return err
		}
		h.UpdatedAt = r.s.now()

		const upd = `
			UPDATE handbooks SET project_id = $1, title = $2, password = $3, updated_at = $4
			WHERE id = $5
		`
		if _, err := tx.ExecContext(ctx, upd,
			nullStr(h.ProjectID), h.Title, h.Password, h.UpdatedAt, id); err != nil {
			return err
		}
		out = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the handbook; its files go with it via ON DELETE
// CASCADE.
func (r *handbookStore) Delete(ctx context.Context, id string) error {
	res, err := r.s.db.ExecContext(ctx, `DELETE FROM handbooks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &storage.NotFoundError{Entity: "handbook", ID: id}
	}
	return nil
}

func (r *handbookStore) Reorder(ctx context.Context, ids []string) error {
	return r.s.reorderRows(ctx, "handbooks", "handbook", "", "", ids)
}
