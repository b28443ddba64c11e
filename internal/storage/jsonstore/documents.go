package jsonstore

import (
	"context"
	"sort"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type documentStore struct {
	col *collection[model.Document]
}

var _ storage.DocumentStore = (*documentStore)(nil)
var _ childCollection = (*documentStore)(nil)

var documentFields = fieldSet[model.Document]{
	"id":        func(d model.Document) any { return d.ID },
	"projectId": func(d model.Document) any { return d.ProjectID },
	"title":     func(d model.Document) any { return d.Title },
	"fileUrl":   func(d model.Document) any { return d.FileURL },
	"category":  func(d model.Document) any { return d.Category },
	"isActive":  func(d model.Document) any { return d.IsActive },
	"createdAt": func(d model.Document) any { return d.CreatedAt },
	"updatedAt": func(d model.Document) any { return d.UpdatedAt },
}

func (s *documentStore) Create(ctx context.Context, d *model.Document) (*model.Document, error) {
	rec := *d
	if err := schema.ValidateDocument(&rec); err != nil {
		return nil, err
	}
	err := s.col.mutate(ctx, func(doc *document[model.Document]) error {
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

func (s *documentStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.Document, error) {
	items, err := s.col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return applyQuery(items, documentFields, q)
}

func (s *documentStore) FindByID(ctx context.Context, id string) (*model.Document, error) {
	return s.col.get(ctx, id)
}

func (s *documentStore) FindByProject(ctx context.Context, projectID string) ([]model.Document, error) {
	items, err := s.col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Document, 0)
	for _, d := range items {
		if d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *documentStore) Update(ctx context.Context, id string, p storage.DocumentPatch) (*model.Document, error) {
	var out model.Document
	err := s.col.mutate(ctx, func(doc *document[model.Document]) error {
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
		if p.FileURL != nil {
			rec.FileURL = *p.FileURL
		}
		if p.Category != nil {
			rec.Category = *p.Category
		}
		if p.IsActive != nil {
			rec.IsActive = *p.IsActive
		}
		if err := schema.ValidateDocument(&rec); err != nil {
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

func (s *documentStore) Delete(ctx context.Context, id string) error {
	return s.col.remove(ctx, id)
}

func (s *documentStore) deleteByParent(ctx context.Context, projectID string) error {
	items, err := s.FindByProject(ctx, projectID)
	if err != nil {
		return err
	}
	for _, d := range items {
		if err := s.Delete(ctx, d.ID); err != nil && !storage.IsNotFound(err) {
			return err
		}
	}
	return nil
}
