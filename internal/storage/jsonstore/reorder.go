package jsonstore

import (
	"context"
	"fmt"
	"time"

	"cmstore/internal/storage"
)

// Reorder assigns order = position for every id in the caller-supplied
// list, in list order. Records not named in the list keep their order
// untouched; callers are expected to pass the complete ordered set for
// the scope, which is what keeps the sequence dense and gap-free.

func reorderAll[T any](ctx context.Context, c *collection[T], ids []string, set func(rec *T, pos int, now time.Time)) error {
	return c.mutate(ctx, func(doc *document[T]) error {
		now := c.store.now()
		for pos, id := range ids {
			rec, ok := doc.Items[id]
			if !ok {
				return &storage.NotFoundError{Entity: c.entity, ID: id}
			}
			set(&rec, pos, now)
			doc.Items[id] = rec
		}
		return nil
	})
}

// reorderScoped additionally checks that every id belongs to the named
// parent, so a stray id cannot silently cross scopes.
func reorderScoped[T any](ctx context.Context, c *collection[T], parentField, parentID string, ids []string, belongs func(rec T) bool, set func(rec *T, pos int, now time.Time)) error {
	return c.mutate(ctx, func(doc *document[T]) error {
		now := c.store.now()
		for pos, id := range ids {
			rec, ok := doc.Items[id]
			if !ok {
				return &storage.NotFoundError{Entity: c.entity, ID: id}
			}
			if !belongs(rec) {
				return &storage.ValidationError{
					Field:  parentField,
					Reason: fmt.Sprintf("%s %q is not owned by %q", c.entity, id, parentID),
				}
			}
			set(&rec, pos, now)
			doc.Items[id] = rec
		}
		return nil
	})
}
