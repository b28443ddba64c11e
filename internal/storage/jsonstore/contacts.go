package jsonstore

import (
	"context"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type contactStore struct {
	col *collection[model.ContactSubmission]
}

var _ storage.ContactStore = (*contactStore)(nil)

var contactFields = fieldSet[model.ContactSubmission]{
	"id":        func(c model.ContactSubmission) any { return c.ID },
	"name":      func(c model.ContactSubmission) any { return c.Name },
	"email":     func(c model.ContactSubmission) any { return c.Email },
	"status":    func(c model.ContactSubmission) any { return c.Status },
	"archived":  func(c model.ContactSubmission) any { return c.Archived },
	"createdAt": func(c model.ContactSubmission) any { return c.CreatedAt },
	"updatedAt": func(c model.ContactSubmission) any { return c.UpdatedAt },
}

func (s *contactStore) Create(ctx context.Context, c *model.ContactSubmission) (*model.ContactSubmission, error) {
	rec := *c
	if rec.Status == "" {
		rec.Status = model.ContactNew
	}
	if err := schema.ValidateContact(&rec); err != nil {
		return nil, err
	}
	err := s.col.mutate(ctx, func(doc *document[model.ContactSubmission]) error {
		now := s.col.store.now()
		rec.ID = s.col.store.newID()
		rec.CreatedAt, rec.UpdatedAt = now, now
		doc.Items[rec.ID] = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *contactStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.ContactSubmission, error) {
	items, err := s.col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return applyQuery(items, contactFields, q)
}

func (s *contactStore) FindByID(ctx context.Context, id string) (*model.ContactSubmission, error) {
	return s.col.get(ctx, id)
}

func (s *contactStore) Update(ctx context.Context, id string, p storage.ContactPatch) (*model.ContactSubmission, error) {
	var out model.ContactSubmission
	err := s.col.mutate(ctx, func(doc *document[model.ContactSubmission]) error {
		rec, ok := doc.Items[id]
		if !ok {
			return &storage.NotFoundError{Entity: s.col.entity, ID: id}
		}
		if p.Status != nil {
			rec.Status = *p.Status
		}
		if p.Archived != nil {
			rec.Archived = *p.Archived
		}
		if p.Reply != nil {
			rec.Reply = *p.Reply
		}
		if err := schema.ValidateContact(&rec); err != nil {
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

func (s *contactStore) Delete(ctx context.Context, id string) error {
	return s.col.remove(ctx, id)
}
