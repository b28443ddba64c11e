package objstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryClient is a map-backed Client for tests and local development.
// It mirrors the S3 semantics the engine relies on: whole-object
// writes, idempotent deletes, and found=false for absent keys.
type MemoryClient struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemory creates an empty in-process object store.
func NewMemory() *MemoryClient {
	return &MemoryClient{objects: make(map[string][]byte)}
}

var _ Client = (*MemoryClient)(nil)

func (m *MemoryClient) ReadJSON(ctx context.Context, key string, v any) (bool, error) {
	m.mu.RLock()
	data, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode object %q: %w", key, err)
	}
	return true, nil
}

func (m *MemoryClient) WriteJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode object %q: %w", key, err)
	}
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryClient) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryClient) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	return ok, nil
}

func (m *MemoryClient) Ping(ctx context.Context) error {
	return nil
}

// Len reports how many objects are stored. Test helper.
func (m *MemoryClient) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
