package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Shape(t *testing.T) {
	got := New()
	assert.Len(t, got, timestampWidth+suffixLen)
	for _, r := range got {
		assert.Contains(t, alphabet, string(r))
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := New()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %q", id)
		seen[id] = struct{}{}
	}
}

func TestNew_SortableByTime(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	origNow := now
	defer func() { now = origNow }()

	now = func() time.Time { return base }
	earlier := New()

	now = func() time.Time { return base.Add(5 * time.Millisecond) }
	later := New()

	assert.Less(t, earlier, later)
}
