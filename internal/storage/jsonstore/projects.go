package jsonstore

import (
	"context"
	"time"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type projectStore struct {
	col *collection[model.Project]
	// children are walked on delete: project images, documents,
	// handbooks. Handbooks cascade to their own files through their
	// own delete path.
	children []childCollection
}

var _ storage.ProjectStore = (*projectStore)(nil)

var projectFields = fieldSet[model.Project]{
	"id":        func(p model.Project) any { return p.ID },
	"title":     func(p model.Project) any { return p.Title },
	"category":  func(p model.Project) any { return p.Category },
	"order":     func(p model.Project) any { return p.Order },
	"isActive":  func(p model.Project) any { return p.IsActive },
	"createdAt": func(p model.Project) any { return p.CreatedAt },
	"updatedAt": func(p model.Project) any { return p.UpdatedAt },
}

func (s *projectStore) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	rec := *p
	if err := schema.ValidateProject(&rec); err != nil {
		return nil, err
	}
	err := s.col.mutate(ctx, func(doc *document[model.Project]) error {
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

func (s *projectStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.Project, error) {
	items, err := s.col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return applyQuery(items, projectFields, q)
}

func (s *projectStore) FindByID(ctx context.Context, id string) (*model.Project, error) {
	return s.col.get(ctx, id)
}

func (s *projectStore) Update(ctx context.Context, id string, p storage.ProjectPatch) (*model.Project, error) {
	var out model.Project
	err := s.col.mutate(ctx, func(doc *document[model.Project]) error {
		rec, ok := doc.Items[id]
		if !ok {
			return &storage.NotFoundError{Entity: s.col.entity, ID: id}
		}
		if p.Title != nil {
			rec.Title = *p.Title
		}
		if p.Category != nil {
			rec.Category = *p.Category
		}
		if p.IsActive != nil {
			rec.IsActive = *p.IsActive
		}
		if err := schema.ValidateProject(&rec); err != nil {
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

// Delete removes the project and everything it owns. Children go
// first, each under its own collection lock, then the project record;
// a retry after a partial failure re-walks the children and finds the
// already-deleted ones gone, which is a no-op. A reader racing the
// cascade may briefly see the project with some children missing.
func (s *projectStore) Delete(ctx context.Context, id string) error {
	if _, err := s.col.get(ctx, id); err != nil {
		return err
	}
	for _, child := range s.children {
		if err := child.deleteByParent(ctx, id); err != nil {
			return err
		}
	}
	return s.col.remove(ctx, id)
}

func (s *projectStore) Reorder(ctx context.Context, ids []string) error {
	return reorderAll(ctx, s.col, ids, func(rec *model.Project, pos int, now time.Time) {
		rec.Order = pos
		rec.UpdatedAt = now
	})
}
