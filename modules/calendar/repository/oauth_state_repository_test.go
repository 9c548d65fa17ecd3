package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryOAuthStateStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)
	store := NewMemoryOAuthStateStore().(*memoryOAuthStateStore)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "s1", "alice", time.Minute))
	require.NoError(t, store.Save(ctx, "s2", "bob", time.Minute))

	userID, err := store.Consume(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "alice", userID)

	userID, err = store.Consume(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, userID, "a state is single use")

	now = now.Add(2 * time.Minute)
	userID, err = store.Consume(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, userID, "expired")

	userID, err = store.Consume(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, userID)
}
