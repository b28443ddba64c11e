package postgres

import (
	"context"
	"database/sql"
	"errors"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type userStore struct {
	s *Store
}

var _ storage.UserStore = (*userStore)(nil)

const userCols = `id, name, email, password, role, created_at, updated_at`

var userListSpec = listSpec{
	selectBase: `SELECT ` + userCols + ` FROM users`,
	fields: map[string]string{
		"id":        "id",
		"name":      "name",
		"email":     "email",
		"role":      "role",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
}

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userStore) Create(ctx context.Context, u *model.User) (*model.User, error) {
	rec := *u
	if err := schema.ValidateUser(&rec); err != nil {
		return nil, err
	}
	now := r.s.now()
	rec.ID = r.s.newID()
	rec.CreatedAt, rec.UpdatedAt = now, now

	const q = `
		INSERT INTO users (` + userCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.s.db.ExecContext(ctx, q,
		rec.ID, rec.Name, rec.Email, rec.Password, string(rec.Role), rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, &storage.ConflictError{Field: "email", Value: rec.Email}
		}
		return nil, err
	}
	return &rec, nil
}

func (r *userStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.User, error) {
	query, args, err := buildList(userListSpec, q)
	if err != nil {
		return nil, err
	}
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	return items, rows.Err()
}

func (r *userStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id = $1`
	u, err := scanUser(r.s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Entity: "user", ID: id}
	}
	return u, err
}

func (r *userStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE lower(email) = lower($1)`
	u, err := scanUser(r.s.db.QueryRowContext(ctx, q, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Entity: "user", ID: email}
	}
	return u, err
}

// Update reads the row inside a transaction, merges the patch in
// memory and validates the result before writing, so validation
// behavior matches the JSON engine exactly.
func (r *userStore) Update(ctx context.Context, id string, p storage.UserPatch) (*model.User, error) {
	var out *model.User
	err := withTx(ctx, r.s.db, func(tx *sql.Tx) error {
		const sel = `SELECT ` + userCols + ` FROM users WHERE id = $1 FOR UPDATE`
		u, err := scanUser(tx.QueryRowContext(ctx, sel, id))
		if errors.Is(err, sql.ErrNoRows) {
			return &storage.NotFoundError{Entity: "user", ID: id}
		}
		if err != nil {
			return err
		}
		if p.Name != nil {
			u.Name = *p.Name
		}
		if p.Email != nil {
			u.Email = *p.Email
		}
		if p.Password != nil {
			u.Password = *p.Password
		}
		if p.Role != nil {
			u.Role = *p.Role
		}
		if err := schema.ValidateUser(u); err != nil {
			return err
		}
		u.UpdatedAt = r.s.now()

		const upd = `
			UPDATE users SET name = $1, email = $2, password = $3, role = $4, updated_at = $5
			WHERE id = $6
		`
		if _, err := tx.ExecContext(ctx, upd, u.Name, u.Email, u.Password, string(u.Role), u.UpdatedAt, id); err != nil {
			if _, ok := uniqueViolation(err); ok {
				return &storage.ConflictError{Field: "email", Value: u.Email}
			}
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userStore) Delete(ctx context.Context, id string) error {
	res, err := r.s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &storage.NotFoundError{Entity: "user", ID: id}
	}
	return nil
}
