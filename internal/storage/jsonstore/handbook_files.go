package jsonstore

import (
	"context"
	"sort"
	"time"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type handbookFileStore struct {
	col *collection[model.HandbookFile]
}

var _ storage.HandbookFileStore = (*handbookFileStore)(nil)
var _ childCollection = (*handbookFileStore)(nil)

var handbookFileFields = fieldSet[model.HandbookFile]{
	"id":         func(f model.HandbookFile) any { return f.ID },
	"handbookId": func(f model.HandbookFile) any { return f.HandbookID },
	"title":      func(f model.HandbookFile) any { return f.Title },
	"fileUrl":    func(f model.HandbookFile) any { return f.FileURL },
	"fileType":   func(f model.HandbookFile) any { return f.FileType },
	"order":      func(f model.HandbookFile) any { return f.Order },
	"createdAt":  func(f model.HandbookFile) any { return f.CreatedAt },
	"updatedAt":  func(f model.HandbookFile) any { return f.UpdatedAt },
}

func (s *handbookFileStore) Create(ctx context.Context, f *model.HandbookFile) (*model.HandbookFile, error) {
	rec := *f
	if err := schema.ValidateHandbookFile(&rec); err != nil {
		return nil, err
	}
	err := s.col.mutate(ctx, func(doc *document[model.HandbookFile]) error {
		now := s.col.store.now()
		rec.ID = s.col.store.newID()
		rec.CreatedAt, rec.UpdatedAt = now, now
		siblings := 0
		for _, other := range doc.Items {
			if other.HandbookID == rec.HandbookID {
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

func (s *handbookFileStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.HandbookFile, error) {
	items, err := s.col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return applyQuery(items, handbookFileFields, q)
}

func (s *handbookFileStore) FindByID(ctx context.Context, id string) (*model.HandbookFile, error) {
	return s.col.get(ctx, id)
}

func (s *handbookFileStore) FindByHandbook(ctx context.Context, handbookID string) ([]model.HandbookFile, error) {
	items, err := s.col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.HandbookFile, 0)
	for _, f := range items {
		if f.HandbookID == handbookID {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *handbookFileStore) Update(ctx context.Context, id string, p storage.HandbookFilePatch) (*model.HandbookFile, error) {
	var out model.HandbookFile
	err := s.col.mutate(ctx, func(doc *document[model.HandbookFile]) error {
		rec, ok := doc.Items[id]
		if !ok {
			return &storage.NotFoundError{Entity: s.col.entity, ID: id}
		}
		if p.Title != nil {
			rec.Title = *p.Title
		}
		if p.FileURL != nil {
			rec.FileURL = *p.FileURL
		}
		if p.FileType != nil {
			rec.FileType = *p.FileType
		}
		if err := schema.ValidateHandbookFile(&rec); err != nil {
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

func (s *handbookFileStore) Delete(ctx context.Context, id string) error {
	return s.col.remove(ctx, id)
}

func (s *handbookFileStore) Reorder(ctx context.Context, handbookID string, ids []string) error {
	return reorderScoped(ctx, s.col, "handbookId", handbookID,
		ids,
		func(rec model.HandbookFile) bool { return rec.HandbookID == handbookID },
		func(rec *model.HandbookFile, pos int, now time.Time) {
			rec.Order = pos
			rec.UpdatedAt = now
		})
}

func (s *handbookFileStore) deleteByParent(ctx context.Context, handbookID string) error {
	items, err := s.FindByHandbook(ctx, handbookID)
	if err != nil {
		return err
	}
	for _, f := range items {
		if err := s.Delete(ctx, f.ID); err != nil && !storage.IsNotFound(err) {
			return err
		}
	}
	return nil
}
