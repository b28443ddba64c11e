package postgres

import (
	"context"
	"database/sql"
	"errors"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type documentStore struct {
	s *Store
}

var _ storage.DocumentStore = (*documentStore)(nil)

const documentCols = `id, project_id, title, file_url, category, is_active, created_at, updated_at`

var documentListSpec = listSpec{
	selectBase: `SELECT ` + documentCols + ` FROM documents`,
	fields: map[string]string{
		"id":        "id",
		"projectId": "project_id",
		"title":     "title",
		"fileUrl":   "file_url",
		"category":  "category",
		"isActive":  "is_active",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
}

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var d model.Document
	var projectID sql.NullString
	if err := row.Scan(&d.ID, &projectID, &d.Title, &d.FileURL, &d.Category, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.ProjectID = projectID.String
	return &d, nil
}

func (r *documentStore) Create(ctx context.Context, d *model.Document) (*model.Document, error) {
	rec := *d
	if err := schema.ValidateDocument(&rec); err != nil {
		return nil, err
	}
	now := r.s.now()
	rec.ID = r.s.newID()
	rec.CreatedAt, rec.UpdatedAt = now, now

	const q = `
		INSERT INTO documents (` + documentCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.s.db.ExecContext(ctx, q,
		rec.ID, nullStr(rec.ProjectID), rec.Title, rec.FileURL, rec.Category, rec.IsActive, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *documentStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.Document, error) {
	query, args, err := buildList(documentListSpec, q)
	if err != nil {
		return nil, err
	}
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

func (r *documentStore) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentCols + ` FROM documents WHERE id = $1`
	d, err := scanDocument(r.s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Entity: "document", ID: id}
	}
	return d, err
}

func (r *documentStore) FindByProject(ctx context.Context, projectID string) ([]model.Document, error) {
	const q = `SELECT ` + documentCols + ` FROM documents WHERE project_id = $1 ORDER BY id ASC`
	rows, err := r.s.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

func (r *documentStore) Update(ctx context.Context, id string, p storage.DocumentPatch) (*model.Document, error) {
	var out *model.Document
	err := withTx(ctx, r.s.db, func(tx *sql.Tx) error {
		const sel = `SELECT ` + documentCols + ` FROM documents WHERE id = $1 FOR UPDATE`
		d, err := scanDocument(tx.QueryRowContext(ctx, sel, id))
		if errors.Is(err, sql.ErrNoRows) {
			return &storage.NotFoundError{Entity: "document", ID: id}
		}
		if err != nil {
			return err
		}
		if p.ProjectID != nil {
			d.ProjectID = *p.ProjectID
		}
		if p.Title != nil {
			d.Title = *p.Title
		}
		if p.FileURL != nil {
			d.FileURL = *p.FileURL
		}
		if p.Category != nil {
			d.Category = *p.Category
		}
		if p.IsActive != nil {
			d.IsActive = *p.IsActive
		}
		if err := schema.ValidateDocument(d); err != nil {
			return err
		}
		d.UpdatedAt = r.s.now()

		const upd = `
			UPDATE documents SET project_id = $1, title = $2, file_url = $3, category = $4, is_active = $5, updated_at = $6
			WHERE id = $7
		`
		if _, err := tx.ExecContext(ctx, upd,
			nullStr(d.ProjectID), d.Title, d.FileURL, d.Category, d.IsActive, d.UpdatedAt, id); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentStore) Delete(ctx context.Context, id string) error {
	res, err := r.s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &storage.NotFoundError{Entity: "document", ID: id}
	}
	return nil
}
