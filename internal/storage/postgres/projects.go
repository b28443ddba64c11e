package postgres

import (
	"context"
	"database/sql"
	"errors"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type projectStore struct {
	s *Store
}

var _ storage.ProjectStore = (*projectStore)(nil)

const projectCols = `id, title, category, "order", is_active, created_at, updated_at`

var projectListSpec = listSpec{
	selectBase: `SELECT ` + projectCols + ` FROM projects`,
	fields: map[string]string{
		"id":        "id",
		"title":     "title",
		"category":  "category",
		"order":     `"order"`,
		"isActive":  "is_active",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
}

func scanProject(row interface{ Scan(...any) error }) (*model.Project, error) {
	var p model.Project
	if err := row.Scan(&p.ID, &p.Title, &p.Category, &p.Order, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectStore) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	rec := *p
	if err := schema.ValidateProject(&rec); err != nil {
		return nil, err
	}
	now := r.s.now()
	rec.ID = r.s.newID()
	rec.CreatedAt, rec.UpdatedAt = now, now

	err := withTx(ctx, r.s.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&rec.Order); err != nil {
			return err
		}
		const q = `
			INSERT INTO projects (` + projectCols + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err := tx.ExecContext(ctx, q,
			rec.ID, rec.Title, rec.Category, rec.Order, rec.IsActive, rec.CreatedAt, rec.UpdatedAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *projectStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.Project, error) {
	query, args, err := buildList(projectListSpec, q)
	if err != nil {
		return nil, err
	}
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func (r *projectStore) FindByID(ctx context.Context, id string) (*model.Project, error) {
	const q = `SELECT ` + projectCols + ` FROM projects WHERE id = $1`
	p, err := scanProject(r.s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Entity: "project", ID: id}
	}
	return p, err
}

func (r *projectStore) Update(ctx context.Context, id string, p storage.ProjectPatch) (*model.Project, error) {
	var out *model.Project
	err := withTx(ctx, r.s.db, func(tx *sql.Tx) error {
		const sel = `SELECT ` + projectCols + ` FROM projects WHERE id = $1 FOR UPDATE`
		proj, err := scanProject(tx.QueryRowContext(ctx, sel, id))
		if errors.Is(err, sql.ErrNoRows) {
			return &storage.NotFoundError{Entity: "project", ID: id}
		}
		if err != nil {
			return err
		}
		if p.Title != nil {
			proj.Title = *p.Title
		}
		if p.Category != nil {
			proj.Category = *p.Category
		}
		if p.IsActive != nil {
			proj.IsActive = *p.IsActive
		}
		if err := schema.ValidateProject(proj); err != nil {
			return err
		}
		proj.UpdatedAt = r.s.now()

		const upd = `
			UPDATE projects SET title = $1, category = $2, is_active = $3, updated_at = $4
			WHERE id = $5
		`
		if _, err := tx.ExecContext(ctx, upd, proj.Title, proj.Category, proj.IsActive, proj.UpdatedAt, id); err != nil {
			return err
		}
		out = proj
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the project; images, documents, handbooks and
// handbook files go with it via ON DELETE CASCADE.
func (r *projectStore) Delete(ctx context.Context, id string) error {
	res, err := r.s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &storage.NotFoundError{Entity: "project", ID: id}
	}
	return nil
}

func (r *projectStore) Reorder(ctx context.Context, ids []string) error {
	return r.s.reorderRows(ctx, "projects", "project", "", "", ids)
}
