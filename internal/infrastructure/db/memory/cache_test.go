package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetDelete(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.NoError(t, c.Ping(ctx))
}

func TestCache_Expiry(t *testing.T) {
	c := NewCache()
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "short", "v", time.Second))
	require.NoError(t, c.Set(ctx, "forever", "v", 0))

	now = now.Add(999 * time.Millisecond)
	_, ok, _ := c.Get(ctx, "short")
	assert.True(t, ok)

	now = now.Add(time.Millisecond)
	_, ok, _ = c.Get(ctx, "short")
	assert.False(t, ok)

	now = now.Add(24 * time.Hour)
	_, ok, _ = c.Get(ctx, "forever")
	assert.True(t, ok)
}
