package postgres

import (
	"context"
	"database/sql"
	"errors"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type settingStore struct {
	s *Store
}

var _ storage.SettingStore = (*settingStore)(nil)

const settingCols = `id, type, key, value, created_at, updated_at`

var settingListSpec = listSpec{
	selectBase: `SELECT ` + settingCols + ` FROM site_settings`,
	fields: map[string]string{
		"id":        "id",
		"type":      "type",
		"key":       "key",
		"value":     "value",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
}

func scanSetting(row interface{ Scan(...any) error }) (*model.SiteSetting, error) {
	var s model.SiteSetting
	if err := row.Scan(&s.ID, &s.Type, &s.Key, &s.Value, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingStore) Create(ctx context.Context, s *model.SiteSetting) (*model.SiteSetting, error) {
	rec := *s
	if err := schema.ValidateSetting(&rec); err != nil {
		return nil, err
	}
	now := r.s.now()
	rec.ID = r.s.newID()
	rec.CreatedAt, rec.UpdatedAt = now, now

	const q = `
		INSERT INTO site_settings (` + settingCols + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.s.db.ExecContext(ctx, q,
		rec.ID, rec.Type, rec.Key, rec.Value, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, &storage.ConflictError{Field: "type/key", Value: rec.Type + "/" + rec.Key}
		}
		return nil, err
	}
	return &rec, nil
}

func (r *settingStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.SiteSetting, error) {
	query, args, err := buildList(settingListSpec, q)
	if err != nil {
		return nil, err
	}
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.SiteSetting, 0)
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

func (r *settingStore) FindByID(ctx context.Context, id string) (*model.SiteSetting, error) {
	const q = `SELECT ` + settingCols + ` FROM site_settings WHERE id = $1`
	s, err := scanSetting(r.s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Entity: "site setting", ID: id}
	}
	return s, err
}

func (r *settingStore) FindByTypeAndKey(ctx context.Context, typ, key string) (*model.SiteSetting, error) {
	const q = `SELECT ` + settingCols + ` FROM site_settings WHERE type = $1 AND key = $2`
	s, err := scanSetting(r.s.db.QueryRowContext(ctx, q, typ, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Entity: "site setting", ID: typ + "/" + key}
	}
	return s, err
}

func (r *settingStore) Update(ctx context.Context, id string, p storage.SettingPatch) (*model.SiteSetting, error) {
	var out *model.SiteSetting
	err := withTx(ctx, r.s.db, func(tx *sql.Tx) error {
		const sel = `SELECT ` + settingCols + ` FROM site_settings WHERE id = $1 FOR UPDATE`
		s, err := scanSetting(tx.QueryRowContext(ctx, sel, id))
		if errors.Is(err, sql.ErrNoRows) {
			return &storage.NotFoundError{Entity: "site setting", ID: id}
		}
		if err != nil {
			return err
		}
		if p.Value != nil {
			s.Value = *p.Value
		}
		if err := schema.ValidateSetting(s); err != nil {
			return err
		}
		s.UpdatedAt = r.s.now()

		const upd = `UPDATE site_settings SET value = $1, updated_at = $2 WHERE id = $3`
		if _, err := tx.ExecContext(ctx, upd, s.Value, s.UpdatedAt, id); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert creates the (type, key) setting or overwrites its value. The
// stored id and createdAt survive an overwrite.
func (r *settingStore) Upsert(ctx context.Context, typ, key, value string) (*model.SiteSetting, error) {
	rec := model.SiteSetting{Type: typ, Key: key, Value: value}
	if err := schema.ValidateSetting(&rec); err != nil {
		return nil, err
	}
	now := r.s.now()
	rec.ID = r.s.newID()
	rec.CreatedAt, rec.UpdatedAt = now, now

	const q = `
		INSERT INTO site_settings (` + settingCols + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (type, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
		RETURNING ` + settingCols + `
	`
	s, err := scanSetting(r.s.db.QueryRowContext(ctx, q,
		rec.ID, rec.Type, rec.Key, rec.Value, rec.CreatedAt, rec.UpdatedAt))
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *settingStore) Delete(ctx context.Context, id string) error {
	res, err := r.s.db.ExecContext(ctx, `DELETE FROM site_settings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &storage.NotFoundError{Entity: "site setting", ID: id}
	}
	return nil
}
