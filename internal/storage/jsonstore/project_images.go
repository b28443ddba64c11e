package jsonstore

import (
	"context"
	"sort"
	"time"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type projectImageStore struct {
	col *collection[model.ProjectImage]
}

var _ storage.ProjectImageStore = (*projectImageStore)(nil)
var _ childCollection = (*projectImageStore)(nil)

var projectImageFields = fieldSet[model.ProjectImage]{
	"id":        func(i model.ProjectImage) any { return i.ID },
	"projectId": func(i model.ProjectImage) any { return i.ProjectID },
	"imageUrl":  func(i model.ProjectImage) any { return i.ImageURL },
	"order":     func(i model.ProjectImage) any { return i.Order },
	"createdAt": func(i model.ProjectImage) any { return i.CreatedAt },
	"updatedAt": func(i model.ProjectImage) any { return i.UpdatedAt },
}

func (s *projectImageStore) Create(ctx context.Context, img *model.ProjectImage) (*model.ProjectImage, error) {
	rec := *img
	if err := schema.ValidateProjectImage(&rec); err != nil {
		return nil, err
	}
	err := s.col.mutate(ctx, func(doc *document[model.ProjectImage]) error {
		now := s.col.store.now()
		rec.ID = s.col.store.newID()
		rec.CreatedAt, rec.UpdatedAt = now, now
		// Append at the end of the parent's sequence.
		siblings := 0
		for _, other := range doc.Items {
			if other.ProjectID == rec.ProjectID {
				siblings++
			}
		}
		rec.Order = siblings
		doc.Items[rec.ID] = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *projectImageStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.ProjectImage, error) {
	items, err := s.col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return applyQuery(items, projectImageFields, q)
}

func (s *projectImageStore) FindByID(ctx context.Context, id string) (*model.ProjectImage, error) {
	return s.col.get(ctx, id)
}

// FindByProject returns the parent's images in display order.
func (s *projectImageStore) FindByProject(ctx context.Context, projectID string) ([]model.ProjectImage, error) {
	items, err := s.col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.ProjectImage, 0)
	for _, img := range items {
		if img.ProjectID == projectID {
			out = append(out, img)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *projectImageStore) Update(ctx context.Context, id string, p storage.ProjectImagePatch) (*model.ProjectImage, error) {
	var out model.ProjectImage
	err := s.col.mutate(ctx, func(doc *document[model.ProjectImage]) error {
		rec, ok := doc.Items[id]
		if !ok {
			return &storage.NotFoundError{Entity: s.col.entity, ID: id}
		}
		if p.ImageURL != nil {
			rec.ImageURL = *p.ImageURL
		}
		if err := schema.ValidateProjectImage(&rec); err != nil {
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

func (s *projectImageStore) Delete(ctx context.Context, id string) error {
	return s.col.remove(ctx, id)
}

func (s *projectImageStore) Reorder(ctx context.Context, projectID string, ids []string) error {
	return reorderScoped(ctx, s.col, "projectId", projectID,
		ids,
		func(rec model.ProjectImage) bool { return rec.ProjectID == projectID },
		func(rec *model.ProjectImage, pos int, now time.Time) {
			rec.Order = pos
			rec.UpdatedAt = now
		})
}

func (s *projectImageStore) deleteByParent(ctx context.Context, projectID string) error {
	items, err := s.FindByProject(ctx, projectID)
	if err != nil {
		return err
	}
	for _, img := range items {
		if err := s.Delete(ctx, img.ID); err != nil && !storage.IsNotFound(err) {
			return err
		}
	}
	return nil
}
