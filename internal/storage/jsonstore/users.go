package jsonstore

import (
	"context"
	"strings"

	"cmstore/internal/model"
	"cmstore/internal/schema"
	"cmstore/internal/storage"
)

type userStore struct {
	col *collection[model.User]
}

var _ storage.UserStore = (*userStore)(nil)

var userFields = fieldSet[model.User]{
	"id":        func(u model.User) any { return u.ID },
	"name":      func(u model.User) any { return u.Name },
	"email":     func(u model.User) any { return u.Email },
	"role":      func(u model.User) any { return u.Role },
	"createdAt": func(u model.User) any { return u.CreatedAt },
	"updatedAt": func(u model.User) any { return u.UpdatedAt },
}

func (s *userStore) Create(ctx context.Context, u *model.User) (*model.User, error) {
	rec := *u
	if err := schema.ValidateUser(&rec); err != nil {
		return nil, err
	}
	err := s.col.mutate(ctx, func(doc *document[model.User]) error {
		for _, existing := range doc.Items {
			if strings.EqualFold(existing.Email, rec.Email) {
				return &storage.ConflictError{Field: "email", Value: rec.Email}
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

func (s *userStore) FindMany(ctx context.Context, q storage.ListQuery) ([]model.User, error) {
	items, err := s.col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return applyQuery(items, userFields, q)
}

func (s *userStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	return s.col.get(ctx, id)
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	items, err := s.col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range items {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, &storage.NotFoundError{Entity: s.col.entity, ID: email}
}

func (s *userStore) Update(ctx context.Context, id string, p storage.UserPatch) (*model.User, error) {
	var out model.User
	err := s.col.mutate(ctx, func(doc *document[model.User]) error {
		rec, ok := doc.Items[id]
		if !ok {
			return &storage.NotFoundError{Entity: s.col.entity, ID: id}
		}
		if p.Name != nil {
			rec.Name = *p.Name
		}
		if p.Email != nil {
			rec.Email = *p.Email
		}
		if p.Password != nil {
			rec.Password = *p.Password
		}
		if p.Role != nil {
			rec.Role = *p.Role
		}
		if err := schema.ValidateUser(&rec); err != nil {
			return err
		}
		if p.Email != nil {
			for otherID, other := range doc.Items {
				if otherID != id && strings.EqualFold(other.Email, rec.Email) {
					return &storage.ConflictError{Field: "email", Value: rec.Email}
				}
			}
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

func (s *userStore) Delete(ctx context.Context, id string) error {
	return s.col.remove(ctx, id)
}
