package jsonstore

import (
	"context"
	"time"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type carouselStore struct {
	col *collection[model.Carousel]
}

var _ storage.CarouselStore = (*carouselStore)(nil)

var carouselFields = fieldSet[model.Carousel]{
	"id":        func(c model.Carousel) any { return c.ID },
	"title":     func(c model.Carousel) any { return c.Title },
	"subtitle":  func(c model.Carousel) any { return c.Subtitle },
	"imageUrl":  func(c model.Carousel) any { return c.ImageURL },
	"order":     func(c model.Carousel) any { return c.Order },
	"isActive":  func(c model.Carousel) any { return c.IsActive },
	"createdAt": func(c model.Carousel) any { return c.CreatedAt },
	"updatedAt": func(c model.Carousel) any { return c.UpdatedAt },
}

func (s *carouselStore) Create(ctx context.Context, c *model.Carousel) (*model.Carousel, error) {
	rec := *c
	if err := schema.ValidateCarousel(&rec); err != nil {
		return nil, err
	}
	err := s.col.mutate(ctx, func(doc *document[model.Carousel]) error {
		now := s.col.store.now()
		rec.ID = s.col.store.newID()
		rec.CreatedAt, rec.UpdatedAt = now, now
		// New slides go to the end of the sequence.
		rec.Order = len(doc.Items)
		doc.Items[rec.ID] = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *carouselStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.Carousel, error) {
	items, err := s.col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return applyQuery(items, carouselFields, q)
}

func (s *carouselStore) FindByID(ctx context.Context, id string) (*model.Carousel, error) {
	return s.col.get(ctx, id)
}

func (s *carouselStore) Update(ctx context.Context, id string, p storage.CarouselPatch) (*model.Carousel, error) {
	var out model.Carousel
	err := s.col.mutate(ctx, func(doc *document[model.Carousel]) error {
		rec, ok := doc.Items[id]
		if !ok {
			return &storage.NotFoundError{Entity: s.col.entity, ID: id}
		}
		if p.Title != nil {
			rec.Title = *p.Title
		}
		if p.Subtitle != nil {
			rec.Subtitle = *p.Subtitle
		}
		if p.ImageURL != nil {
			rec.ImageURL = *p.ImageURL
		}
		if p.IsActive != nil {
			rec.IsActive = *p.IsActive
		}
		if err := schema.ValidateCarousel(&rec); err != nil {
			return err
		}
		rec.UpdatedAt = s.col.store.now()
		doc.Items[id] = rec
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *carouselStore) Delete(ctx context.Context, id string) error {
	return s.col.remove(ctx, id)
}

func (s *carouselStore) Reorder(ctx context.Context, ids []string) error {
	return reorderAll(ctx, s.col, ids, func(rec *model.Carousel, pos int, now time.Time) {
		rec.Order = pos
		rec.UpdatedAt = now
	})
}
