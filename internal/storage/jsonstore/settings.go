package jsonstore

import (
	"context"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type settingStore struct {
	col *collection[model.SiteSetting]
}

var _ storage.SettingStore = (*settingStore)(nil)

var settingFields = fieldSet[model.SiteSetting]{
	"id":        func(s model.SiteSetting) any { return s.ID },
	"type":      func(s model.SiteSetting) any { return s.Type },
	"key":       func(s model.SiteSetting) any { return s.Key },
	"value":     func(s model.SiteSetting) any { return s.Value },
	"createdAt": func(s model.SiteSetting) any { return s.CreatedAt },
	"updatedAt": func(s model.SiteSetting) any { return s.UpdatedAt },
}

func (s *settingStore) Create(ctx context.Context, set *model.SiteSetting) (*model.SiteSetting, error) {
	rec := *set
	if err := schema.ValidateSetting(&rec); err != nil {
		return nil, err
	}
	err := s.col.mutate(ctx, func(doc *document[model.SiteSetting]) error {
		for _, existing := range doc.Items {
			if existing.Type == rec.Type && existing.Key == rec.Key {
				return &storage.ConflictError{Field: "type/key", Value: rec.Type + "/" + rec.Key}
			}
		}
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

func (s *settingStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.SiteSetting, error) {
	items, err := s.col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return applyQuery(items, settingFields, q)
}

func (s *settingStore) FindByID(ctx context.Context, id string) (*model.SiteSetting, error) {
	return s.col.get(ctx, id)
}

func (s *settingStore) FindByTypeAndKey(ctx context.Context, typ, key string) (*model.SiteSetting, error) {
	items, err := s.col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, set := range items {
		if set.Type == typ && set.Key == key {
			return &set, nil
		}
	}
	return nil, &storage.NotFoundError{Entity: s.col.entity, ID: typ + "/" + key}
}

func (s *settingStore) Update(ctx context.Context, id string, p storage.SettingPatch) (*model.SiteSetting, error) {
	var out model.SiteSetting
	err := s.col.mutate(ctx, func(doc *document[model.SiteSetting]) error {
		rec, ok := doc.Items[id]
		if !ok {
			return &storage.NotFoundError{Entity: s.col.entity, ID: id}
		}
		if p.Value != nil {
			rec.Value = *p.Value
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

// Upsert writes value under (typ, key), creating the record when the
// pair is absent.
func (s *settingStore) Upsert(ctx context.Context, typ, key, value string) (*model.SiteSetting, error) {
	rec := model.SiteSetting{Type: typ, Key: key, Value: value}
	if err := schema.ValidateSetting(&rec); err != nil {
		return nil, err
	}
	var out model.SiteSetting
	err := s.col.mutate(ctx, func(doc *document[model.SiteSetting]) error {
		now := s.col.store.now()
		for id, existing := range doc.Items {
			if existing.Type == typ && existing.Key == key {
				existing.Value = value
				existing.UpdatedAt = now
				doc.Items[id] = existing
				out = existing
				return nil
			}
		}
		rec.ID = s.col.store.newID()
		rec.CreatedAt, rec.UpdatedAt = now, now
		doc.Items[rec.ID] = rec
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *settingStore) Delete(ctx context.Context, id string) error {
	return s.col.remove(ctx, id)
}
