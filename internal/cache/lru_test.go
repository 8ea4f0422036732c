package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCache_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(4, time.Minute)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	value, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), value)

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestLRUCache_EvictsBeyondSize(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(2, time.Minute)

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_ = c.Set(ctx, "c", []byte("3"), 0)

	assert.Equal(t, 2, c.Len())
	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok, "oldest entry evicted")
}

func TestLRUCache_Expires(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(2, 20*time.Millisecond)

	_ = c.Set(ctx, "a", []byte("1"), 0)
	require.Eventually(t, func() bool {
		_, ok, _ := c.Get(ctx, "a")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
