package postgres

import (
	"context"
	"database/sql"
	"errors"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type carouselStore struct {
	s *Store
}

var _ storage.CarouselStore = (*carouselStore)(nil)

const carouselCols = `id, title, subtitle, image_url, "order", is_active, created_at, updated_at`

var carouselListSpec = listSpec{
	selectBase: `SELECT ` + carouselCols + ` FROM carousels`,
	fields: map[string]string{
		"id":        "id",
		"title":     "title",
		"subtitle":  "subtitle",
		"imageUrl":  "image_url",
		"order":     `"order"`,
		"isActive":  "is_active",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
}

func scanCarousel(row interface{ Scan(...any) error }) (*model.Carousel, error) {
	var c model.Carousel
	var subtitle sql.NullString
	if err := row.Scan(&c.ID, &c.Title, &subtitle, &c.ImageURL, &c.Order, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Subtitle = subtitle.String
	return &c, nil
}

func (r *carouselStore) Create(ctx context.Context, c *model.Carousel) (*model.Carousel, error) {
	rec := *c
	if err := schema.ValidateCarousel(&rec); err != nil {
		return nil, err
	}
	now := r.s.now()
	rec.ID = r.s.newID()
	rec.CreatedAt, rec.UpdatedAt = now, now

	// New slides go to the end of the sequence.
	err := withTx(ctx, r.s.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM carousels`).Scan(&rec.Order); err != nil {
			return err
		}
		const q = `
			INSERT INTO carousels (` + carouselCols + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.ExecContext(ctx, q,
			rec.ID, rec.Title, nullStr(rec.Subtitle), rec.ImageURL, rec.Order, rec.IsActive, rec.CreatedAt, rec.UpdatedAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *carouselStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.Carousel, error) {
	query, args, err := buildList(carouselListSpec, q)
	if err != nil {
		return nil, err
	}
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Carousel, 0)
	for rows.Next() {
		c, err := scanCarousel(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

func (r *carouselStore) FindByID(ctx context.Context, id string) (*model.Carousel, error) {
	const q = `SELECT ` + carouselCols + ` FROM carousels WHERE id = $1`
	c, err := scanCarousel(r.s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Entity: "carousel", ID: id}
	}
	return c, err
}

func (r *carouselStore) Update(ctx context.Context, id string, p storage.CarouselPatch) (*model.Carousel, error) {
	var out *model.Carousel
	err := withTx(ctx, r.s.db, func(tx *sql.Tx) error {
		const sel = `SELECT ` + carouselCols + ` FROM carousels WHERE id = $1 FOR UPDATE`
		c, err := scanCarousel(tx.QueryRowContext(ctx, sel, id))
		if errors.Is(err, sql.ErrNoRows) {
			return &storage.NotFoundError{Entity: "carousel", ID: id}
		}
		if err != nil {
			return err
		}
		if p.Title != nil {
			c.Title = *p.Title
		}
		if p.Subtitle != nil {
			c.Subtitle = *p.Subtitle
		}
		if p.ImageURL != nil {
			c.ImageURL = *p.ImageURL
		}
		if p.IsActive != nil {
			c.IsActive = *p.IsActive
		}
		if err := schema.ValidateCarousel(c); err != nil {
			return err
		}
		c.UpdatedAt = r.s.now()

		const upd = `
			UPDATE carousels SET title = $1, subtitle = $2, image_url = $3, is_active = $4, updated_at = $5
			WHERE id = $6
		`
		if _, err := tx.ExecContext(ctx, upd, c.Title, nullStr(c.Subtitle), c.ImageURL, c.IsActive, c.UpdatedAt, id); err != nil {
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

func (r *carouselStore) Delete(ctx context.Context, id string) error {
	res, err := r.s.db.ExecContext(ctx, `DELETE FROM carousels WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &storage.NotFoundError{Entity: "carousel", ID: id}
	}
	return nil
}

func (r *carouselStore) Reorder(ctx context.Context, ids []string) error {
	return r.s.reorderRows(ctx, "carousels", "carousel", "", "", ids)
}
