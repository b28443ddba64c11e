package postgres

import (
	"context"
	"database/sql"
	"errors"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type handbookFileStore struct {
	s *Store
}

var _ storage.HandbookFileStore = (*handbookFileStore)(nil)

const handbookFileCols = `id, handbook_id, title, file_url, file_type, "order", created_at, updated_at`

var handbookFileListSpec = listSpec{
	selectBase: `SELECT ` + handbookFileCols + ` FROM handbook_files`,
	fields: map[string]string{
		"id":         "id",
		"handbookId": "handbook_id",
		"title":      "title",
		"fileUrl":    "file_url",
		"fileType":   "file_type",
		"order":      `"order"`,
		"createdAt":  "created_at",
		"updatedAt":  "updated_at",
	},
}

func scanHandbookFile(row interface{ Scan(...any) error }) (*model.HandbookFile, error) {
	var f model.HandbookFile
	if err := row.Scan(&f.ID, &f.HandbookID, &f.Title, &f.FileURL, &f.FileType, &f.Order, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *handbookFileStore) Create(ctx context.Context, f *model.HandbookFile) (*model.HandbookFile, error) {
	rec := *f
	if err := schema.ValidateHandbookFile(&rec); err != nil {
		return nil, err
	}
	now := r.s.now()
	rec.ID = r.s.newID()
	rec.CreatedAt, rec.UpdatedAt = now, now

	err := withTx(ctx, r.s.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM handbook_files WHERE handbook_id = $1`, rec.HandbookID,
		).Scan(&rec.Order); err != nil {
			return err
		}
		const q = `
			INSERT INTO handbook_files (` + handbookFileCols + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.ExecContext(ctx, q,
			rec.ID, rec.HandbookID, rec.Title, rec.FileURL, rec.FileType, rec.Order, rec.CreatedAt, rec.UpdatedAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *handbookFileStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.HandbookFile, error) {
	query, args, err := buildList(handbookFileListSpec, q)
	if err != nil {
		return nil, err
	}
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.HandbookFile, 0)
	for rows.Next() {
		f, err := scanHandbookFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

func (r *handbookFileStore) FindByID(ctx context.Context, id string) (*model.HandbookFile, error) {
	const q = `SELECT ` + handbookFileCols + ` FROM handbook_files WHERE id = $1`
	f, err := scanHandbookFile(r.s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Entity: "handbook file", ID: id}
	}
	return f, err
}

func (r *handbookFileStore) FindByHandbook(ctx context.Context, handbookID string) ([]model.HandbookFile, error) {
	const q = `SELECT ` + handbookFileCols + ` FROM handbook_files WHERE handbook_id = $1 ORDER BY "order" ASC, id ASC`
	rows, err := r.s.db.QueryContext(ctx, q, handbookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.HandbookFile, 0)
	for rows.Next() {
		f, err := scanHandbookFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

func (r *handbookFileStore) Update(ctx context.Context, id string, p storage.HandbookFilePatch) (*model.HandbookFile, error) {
	var out *model.HandbookFile
	err := withTx(ctx, r.s.db, func(tx *sql.Tx) error {
		const sel = `SELECT ` + handbookFileCols + ` FROM handbook_files WHERE id = $1 FOR UPDATE`
		f, err := scanHandbookFile(tx.QueryRowContext(ctx, sel, id))
		if errors.Is(err, sql.ErrNoRows) {
			return &storage.NotFoundError{Entity: "handbook file", ID: id}
		}
		if err != nil {
			return err
		}
		if p.Title != nil {
			f.Title = *p.Title
		}
		if p.FileURL != nil {
			f.FileURL = *p.FileURL
		}
		if p.FileType != nil {
			f.FileType = *p.FileType
		}
		if err := schema.ValidateHandbookFile(f); err != nil {
			return err
		}
		f.UpdatedAt = r.s.now()

		const upd = `
			UPDATE handbook_files SET title = $1, file_url = $2, file_type = $3, updated_at = $4
			WHERE id = $5
		`
		if _, err := tx.ExecContext(ctx, upd, f.Title, f.FileURL, f.FileType, f.UpdatedAt, id); err != nil {
			return err
		}
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *handbookFileStore) Delete(ctx context.Context, id string) error {
	res, err := r.s.db.ExecContext(ctx, `DELETE FROM handbook_files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &storage.NotFoundError{Entity: "handbook file", ID: id}
	}
	return nil
}

func (r *handbookFileStore) Reorder(ctx context.Context, handbookID string, ids []string) error {
	return r.s.reorderRows(ctx, "handbook_files", "handbook file", "handbook_id", handbookID, ids)
}
