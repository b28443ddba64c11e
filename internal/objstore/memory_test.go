package objstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	found, err := m.ReadJSON(ctx, "data/users.json", &payload{})
	require.NoError(t, err)
	assert.False(t, found, "absent key must read as not found, not as an error")

	require.NoError(t, m.WriteJSON(ctx, "data/users.json", payload{Name: "alice", Count: 2}))

	var got payload
	found, err = m.ReadJSON(ctx, "data/users.json", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "alice", Count: 2}, got)

	exists, err := m.Exists(ctx, "data/users.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryClient_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.WriteJSON(ctx, "data/projects.json", map[string]int{"a": 1}))
	require.NoError(t, m.Delete(ctx, "data/projects.json"))
	// Deleting again is a no-op, not an error.
	require.NoError(t, m.Delete(ctx, "data/projects.json"))

	exists, err := m.Exists(ctx, "data/projects.json")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryClient_WriteOverwrites(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.WriteJSON(ctx, "k", map[string]string{"v": "old", "extra": "field"}))
	require.NoError(t, m.WriteJSON(ctx, "k", map[string]string{"v": "new"}))

	got := map[string]string{}
	found, err := m.ReadJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, map[string]string{"v": "new"}, got, "write must fully replace, not merge")
}
