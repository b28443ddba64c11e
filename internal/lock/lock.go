package lock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Package lock provides process-local advisory locks keyed by string.
// Callers that acquire the same key run strictly one at a time, in
// arrival order; distinct keys do not interfere. The locks are
// cooperative only: they serialize read-modify-write cycles among
// callers in this process and offer no protection against writers in
// other processes.

// Manager hands out per-key mutual exclusion. The zero value is not
// usable; construct with NewManager.
type Manager struct {
	mu      sync.Mutex
	slots   map[string]chan struct{}
	timeout time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout bounds how long Do waits to acquire a key. Zero (the
// default) waits forever, which means a critical section that never
// returns blocks every later caller on that key.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// NewManager creates a Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{slots: make(map[string]chan struct{})}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do runs fn while holding the lock for key. Waiters are admitted in
// FIFO order. The lock is released when fn returns or panics. Do fails
// without running fn if ctx is cancelled or the configured wait
// timeout expires first.
func (m *Manager) Do(ctx context.Context, key string, fn func() error) error {
	slot := m.slot(key)

	if m.timeout > 0 {
		timer := time.NewTimer(m.timeout)
		defer timer.Stop()
		select {
		case slot <- struct{}{}:
		case <-timer.C:
			return fmt.Errorf("lock %q: wait timed out after %s", key, m.timeout)
		case <-ctx.Done():
			return fmt.Errorf("lock %q: %w", key, ctx.Err())
		}
	} else {
		select {
		case slot <- struct{}{}:
		case <-ctx.Done():
			return fmt.Errorf("lock %q: %w", key, ctx.Err())
		}
	}

	defer func() { <-slot }()
	return fn()
}

// slot returns the capacity-1 channel backing key, creating it on first
// use. Channels are never removed; the key space is the fixed set of
// collection names, so the map stays small.
func (m *Manager) slot(key string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		m.slots[key] = ch
	}
	return ch
}
