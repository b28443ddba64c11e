package postgres

import (
	"context"
	"database/sql"
	"errors"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type projectImageStore struct {
	s *Store
}

var _ storage.ProjectImageStore = (*projectImageStore)(nil)

const projectImageCols = `id, project_id, image_url, "order", created_at, updated_at`

var projectImageListSpec = listSpec{
	selectBase: `SELECT ` + projectImageCols + ` FROM project_images`,
	fields: map[string]string{
		"id":        "id",
		"projectId": "project_id",
		"imageUrl":  "image_url",
		"order":     `"order"`,
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
}

func scanProjectImage(row interface{ Scan(...any) error }) (*model.ProjectImage, error) {
	var img model.ProjectImage
	if err := row.Scan(&img.ID, &img.ProjectID, &img.ImageURL, &img.Order, &img.CreatedAt, &img.UpdatedAt); err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *projectImageStore) Create(ctx context.Context, img *model.ProjectImage) (*model.ProjectImage, error) {
	rec := *img
	if err := schema.ValidateProjectImage(&rec); err != nil {
		return nil, err
	}
	now := r.s.now()
	rec.ID = r.s.newID()
	rec.CreatedAt, rec.UpdatedAt = now, now

	// Append at the end of the parent's sequence.
	err := withTx(ctx, r.s.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM project_images WHERE project_id = $1`, rec.ProjectID,
		).Scan(&rec.Order); err != nil {
			return err
		}
		const q = `
			INSERT INTO project_images (` + projectImageCols + `)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err := tx.ExecContext(ctx, q,
			rec.ID, rec.ProjectID, rec.ImageURL, rec.Order, rec.CreatedAt, rec.UpdatedAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *projectImageStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.ProjectImage, error) {
	query, args, err := buildList(projectImageListSpec, q)
	if err != nil {
		return nil, err
	}
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ProjectImage, 0)
	for rows.Next() {
		img, err := scanProjectImage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *img)
	}
	return items, rows.Err()
}

func (r *projectImageStore) FindByID(ctx context.Context, id string) (*model.ProjectImage, error) {
	const q = `SELECT ` + projectImageCols + ` FROM project_images WHERE id = $1`
	img, err := scanProjectImage(r.s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Entity: "project image", ID: id}
	}
	return img, err
}

func (r *projectImageStore) FindByProject(ctx context.Context, projectID string) ([]model.ProjectImage, error) {
	const q = `SELECT ` + projectImageCols + ` FROM project_images WHERE project_id = $1 ORDER BY "order" ASC, id ASC`
	rows, err := r.s.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ProjectImage, 0)
	for rows.Next() {
		img, err := scanProjectImage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *img)
	}
	return items, rows.Err()
}

func (r *projectImageStore) Update(ctx context.Context, id string, p storage.ProjectImagePatch) (*model.ProjectImage, error) {
	var out *model.ProjectImage
	err := withTx(ctx, r.s.db, func(tx *sql.Tx) error {
		const sel = `SELECT ` + projectImageCols + ` FROM project_images WHERE id = $1 FOR UPDATE`
		img, err := scanProjectImage(tx.QueryRowContext(ctx, sel, id))
		if errors.Is(err, sql.ErrNoRows) {
			return &storage.NotFoundError{Entity: "project image", ID: id}
		}
		if err != nil {
			return err
		}
		if p.ImageURL != nil {
			img.ImageURL = *p.ImageURL
		}
		if err := schema.ValidateProjectImage(img); err != nil {
			return err
		}
		img.UpdatedAt = r.s.now()

		const upd = `UPDATE project_images SET image_url = $1, updated_at = $2 WHERE id = $3`
		if _, err := tx.ExecContext(ctx, upd, img.ImageURL, img.UpdatedAt, id); err != nil {
			return err
		}
		out = img
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *projectImageStore) Delete(ctx context.Context, id string) error {
	res, err := r.s.db.ExecContext(ctx, `DELETE FROM project_images WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &storage.NotFoundError{Entity: "project image", ID: id}
	}
	return nil
}

func (r *projectImageStore) Reorder(ctx context.Context, projectID string, ids []string) error {
	return r.s.reorderRows(ctx, "project_images", "project image", "project_id", projectID, ids)
}
