package jsonstore

import (
	"context"
	"sort"
	"time"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type handbookStore struct {
	col   *collection[model.Handbook]
	files *handbookFileStore
}

var _ storage.HandbookStore = (*handbookStore)(nil)
var _ childCollection = (*handbookStore)(nil)

var handbookFields = fieldSet[model.Handbook]{
	"id":        func(h model.Handbook) any { return h.ID },
	"projectId": func(h model.Handbook) any { return h.ProjectID },
	"title":     func(h model.Handbook) any { return h.Title },
	"order":     func(h model.Handbook) any { return h.Order },
	"createdAt": func(h model.Handbook) any { return h.CreatedAt },
	"updatedAt": func(h model.Handbook) any { return h.UpdatedAt },
}

func (s *handbookStore) Create(ctx context.Context, h *model.Handbook) (*model.Handbook, error) {
	rec := *h
	if err := schema.ValidateHandbook(&rec); err != nil {
		return nil, err
	}
	err := s.col.mutate(ctx, func(doc *document[model.Handbook]) error {
		now := s.col.store.now()
		rec.ID = s.col.store.newID()
		rec.CreatedAt, rec.UpdatedAt = now, now
		rec.Order = len(doc.Items)
		doc.Items[rec.ID] = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *handbookStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.Handbook, error) {
	items, err := s.col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return applyQuery(items, handbookFields, q)
}

func (s *handbookStore) FindByID(ctx context.Context, id string) (*model.Handbook, error) {
	return s.col.get(ctx, id)
}

func (s *handbookStore) FindByProject(ctx context.Context, projectID string) ([]model.Handbook, error) {
	items, err := s.col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Handbook, 0)
	for _, h := range items {
		if h.ProjectID == projectID {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *handbookStore) Update(ctx context.Context, id string, p storage.HandbookPatch) (*model.Handbook, error) {
	var out model.Handbook
	err := s.col.mutate(ctx, func(doc *document[model.Handbook]) error {
		rec, ok := doc.Items[id]
		if !ok {
			return &storage.NotFoundError{Entity: s.col.entity, ID: id}
		}
		if p.ProjectID != nil {
			rec.ProjectID = *p.ProjectID
		}
		if p.Title != nil {
			rec.Title = *p.Title
		}
		if p.Password != nil {
			rec.Password = *p.Password
		}
		if err := schema.ValidateHandbook(&rec); err != nil {
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

// Delete removes the handbook and its files. Files go first under
// their own collection lock, then the handbook record.
func (s *handbookStore) Delete(ctx context.Context, id string) error {
	if _, err := s.col.get(ctx, id); err != nil {
		return err
	}
	if err := s.files.deleteByParent(ctx, id); err != nil {
		return err
	}
	return s.col.remove(ctx, id)
}

func (s *handbookStore) Reorder(ctx context.Context, ids []string) error {
	return reorderAll(ctx, s.col, ids, func(rec *model.Handbook, pos int, now time.Time) {
		rec.Order = pos
		rec.UpdatedAt = now
	})
}

func (s *handbookStore) deleteByParent(ctx context.Context, projectID string) error {
	items, err := s.FindByProject(ctx, projectID)
	if err != nil {
		return err
	}
	for _, h := range items {
		if err := s.Delete(ctx, h.ID); err != nil && !storage.IsNotFound(err) {
			return err
		}
	}
	return nil
}
