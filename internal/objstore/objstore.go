package objstore

import "context"

// Package objstore abstracts the S3-compatible object store that backs
// the JSON storage engine. The contract is deliberately narrow: whole
// objects in, whole objects out. Clients never merge; callers perform
// read-modify-write under an advisory lock.

// Client is a thin JSON-document view over an object store.
//
// A missing key is not an error: ReadJSON reports found=false and
// Exists reports false. Transport failures (network, permission)
// propagate unchanged so callers can tell "absent" from "unknown".
type Client interface {
	// ReadJSON unmarshals the object at key into v. found is false when
	// the key does not exist, in which case v is left untouched.
	ReadJSON(ctx context.Context, key string, v any) (found bool, err error)
	// WriteJSON marshals v and fully overwrites the object at key.
	WriteJSON(ctx context.Context, key string, v any) error
	// Delete removes the object at key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
	// Exists reports whether an object is present at key.
	Exists(ctx context.Context, key string) (bool, error)
	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
