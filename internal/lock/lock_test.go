package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_MutualExclusion(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	var active, maxActive int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Do(ctx, "carousels", func() error {
				mu.Lock()
				active++
				if active > maxActive {
					maxActive = active
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive, "critical sections overlapped")
}

func TestDo_DifferentKeysRunConcurrently(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	release := make(chan struct{})
	holding := make(chan struct{})

	go func() {
		_ = m.Do(ctx, "projects", func() error {
			close(holding)
			<-release
			return nil
		})
	}()

	<-holding

	// A different key must not wait on the held one.
	done := make(chan struct{})
	go func() {
		_ = m.Do(ctx, "documents", func() error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("operation on an unrelated key blocked")
	}
	close(release)
}

func TestDo_ReleasesOnError(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	wantErr := errors.New("boom")
	err := m.Do(ctx, "users", func() error { return wantErr })
	require.ErrorIs(t, err, wantErr)

	// The key must be acquirable again.
	err = m.Do(ctx, "users", func() error { return nil })
	assert.NoError(t, err)
}

func TestDo_ReleasesOnPanic(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = m.Do(ctx, "users", func() error { panic("boom") })
	})

	err := m.Do(ctx, "users", func() error { return nil })
	assert.NoError(t, err)
}

func TestDo_ContextCancelled(t *testing.T) {
	m := NewManager()

	release := make(chan struct{})
	holding := make(chan struct{})
	go func() {
		_ = m.Do(context.Background(), "settings", func() error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := m.Do(ctx, "settings", func() error { ran = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}

func TestDo_WaitTimeout(t *testing.T) {
	m := NewManager(WithTimeout(10 * time.Millisecond))

	release := make(chan struct{})
	holding := make(chan struct{})
	go func() {
		_ = m.Do(context.Background(), "contacts", func() error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding
	defer close(release)

	err := m.Do(context.Background(), "contacts", func() error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestDo_FIFOOrder(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	var order []int
	var mu sync.Mutex
	var wg sync.WaitGroup

	// Hold the lock while the waiters queue up so their arrival order
	// is deterministic.
	release := make(chan struct{})
	holding := make(chan struct{})
	go func() {
		_ = m.Do(ctx, "handbooks", func() error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	for i := 0; i < 5; i++ {
		wg.Add(1)
		queued := make(chan struct{})
		go func(n int) {
			defer wg.Done()
			close(queued)
			_ = m.Do(ctx, "handbooks", func() error {
				mu.Lock()
				order = append(order, n)
				mu.Unlock()
				return nil
			})
		}(i)
		<-queued
		// Give the goroutine time to block on the slot before queueing
		// the next one.
		time.Sleep(5 * time.Millisecond)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}
