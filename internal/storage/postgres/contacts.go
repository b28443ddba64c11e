package postgres

import (
	"context"
	"database/sql"
	"errors"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type contactStore struct {
	s *Store
}

var _ storage.ContactStore = (*contactStore)(nil)

const contactCols = `id, name, email, message, status, archived, reply, created_at, updated_at`

var contactListSpec = listSpec{
	selectBase: `SELECT ` + contactCols + ` FROM contacts`,
	fields: map[string]string{
		"id":        "id",
		"name":      "name",
		"email":     "email",
		"message":   "message",
		"status":    "status",
		"archived":  "archived",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
}

func scanContact(row interface{ Scan(...any) error }) (*model.ContactSubmission, error) {
	var c model.ContactSubmission
	var reply sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Message, &c.Status, &c.Archived, &reply, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Reply = reply.String
	return &c, nil
}

func (r *contactStore) Create(ctx context.Context, c *model.ContactSubmission) (*model.ContactSubmission, error) {
	rec := *c
	if rec.Status == "" {
		rec.Status = model.ContactNew
	}
	if err := schema.ValidateContact(&rec); err != nil {
		return nil, err
	}
	now := r.s.now()
	rec.ID = r.s.newID()
	rec.CreatedAt, rec.UpdatedAt = now, now

	const q = `
		INSERT INTO contacts (` + contactCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.s.db.ExecContext(ctx, q,
		rec.ID, rec.Name, rec.Email, rec.Message, rec.Status, rec.Archived, nullStr(rec.Reply), rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *contactStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.ContactSubmission, error) {
	query, args, err := buildList(contactListSpec, q)
	if err != nil {
		return nil, err
	}
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ContactSubmission, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

func (r *contactStore) FindByID(ctx context.Context, id string) (*model.ContactSubmission, error) {
	const q = `SELECT ` + contactCols + ` FROM contacts WHERE id = $1`
	c, err := scanContact(r.s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Entity: "contact submission", ID: id}
	}
	return c, err
}

func (r *contactStore) Update(ctx context.Context, id string, p storage.ContactPatch) (*model.ContactSubmission, error) {
	var out *model.ContactSubmission
	err := withTx(ctx, r.s.db, func(tx *sql.Tx) error {
		const sel = `SELECT ` + contactCols + ` FROM contacts WHERE id = $1 FOR UPDATE`
		c, err := scanContact(tx.QueryRowContext(ctx, sel, id))
		if errors.Is(err, sql.ErrNoRows) {
			return &storage.NotFoundError{Entity: "contact submission", ID: id}
		}
		if err != nil {
			return err
		}
		if p.Status != nil {
			c.Status = *p.Status
		}
		if p.Archived != nil {
			c.Archived = *p.Archived
		}
		if p.Reply != nil {
			c.Reply = *p.Reply
		}
		if err := schema.ValidateContact(c); err != nil {
			return err
		}
		c.UpdatedAt = r.s.now()

		const upd = `
			UPDATE contacts SET status = $1, archived = $2, reply = $3, updated_at = $4
			WHERE id = $5
		`
		if _, err := tx.ExecContext(ctx, upd, c.Status, c.Archived, nullStr(c.Reply), c.UpdatedAt, id); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contactStore) Delete(ctx context.Context, id string) error {
	res, err := r.s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &storage.NotFoundError{Entity: "contact submission", ID: id}
	}
	return nil
}
