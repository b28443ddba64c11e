package jsonstore

import (
	"context"
	"time"

	"cmstore/internal/storage"
)

// metadata is the bookkeeping block persisted alongside each
// collection's item map.
type metadata struct {
	Count       int       `json:"count"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// document is the persisted shape of one collection: the full item map
// keyed by record id plus metadata.
type document[T any] struct {
	Items    map[string]T `json:"items"`
	Metadata metadata     `json:"metadata"`
}

// collection binds one entity type to its object key and gives the
// entity stores the read-modify-write primitives. All mutations go
// through mutate, which holds the collection's advisory lock for the
// whole cycle; an error from the callback aborts before the write.
type collection[T any] struct {
	store  *Store
	name   string // collection name, also the object key stem
	entity string // human-readable entity name for not-found errors
	key    string
}

func newCollection[T any](s *Store, name, entity string) *collection[T] {
	return &collection[T]{
		store:  s,
		name:   name,
		entity: entity,
		key:    "data/" + name + ".json",
	}
}

// load reads the current document, treating an absent key as an empty
// collection.
func (c *collection[T]) load(ctx context.Context) (*document[T], error) {
	doc := &document[T]{}
	found, err := c.store.client.ReadJSON(ctx, c.key, doc)
	if err != nil {
		return nil, err
	}
	if !found || doc.Items == nil {
		doc.Items = make(map[string]T)
	}
	return doc, nil
}

// mutate runs fn against the current document under the collection
// lock and writes the result back. If fn returns an error nothing is
// written and the error is returned unchanged.
func (c *collection[T]) mutate(ctx context.Context, fn func(doc *document[T]) error) error {
	return c.store.locks.Do(ctx, c.name, func() error {
		doc, err := c.load(ctx)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		doc.Metadata.Count = len(doc.Items)
		doc.Metadata.LastUpdated = c.store.now()
		return c.store.client.WriteJSON(ctx, c.key, doc)
	})
}

// snapshot returns the current item map without taking the lock. The
// view may race a concurrent write but is never torn, because writes
// replace the whole document.
func (c *collection[T]) snapshot(ctx context.Context) (map[string]T, error) {
	doc, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Items, nil
}

// get returns one record by id from a snapshot.
func (c *collection[T]) get(ctx context.Context, id string) (*T, error) {
	items, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := items[id]
	if !ok {
		return nil, &storage.NotFoundError{Entity: c.entity, ID: id}
	}
	return &rec, nil
}

// remove deletes one record by id, failing with NotFoundError when the
// id is absent.
func (c *collection[T]) remove(ctx context.Context, id string) error {
	return c.mutate(ctx, func(doc *document[T]) error {
		if _, ok := doc.Items[id]; !ok {
			return &storage.NotFoundError{Entity: c.entity, ID: id}
		}
		delete(doc.Items, id)
		return nil
	})
}
