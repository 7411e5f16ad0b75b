package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)

	c, err := New(context.Background(), mr.Addr(), "", 0, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGetSetRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "leaderboard:v1:daily:overall:100")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "leaderboard:v1:daily:overall:100", []byte(`{"success":true}`)))

	val, err := c.Get(ctx, "leaderboard:v1:daily:overall:100")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"success":true}`), val)
}

func TestInvalidatePrefix(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "leaderboard:v1:daily:overall:100", []byte("a")))
	require.NoError(t, c.Set(ctx, "leaderboard:v1:weekly:reading:50", []byte("b")))
	require.NoError(t, c.Set(ctx, "other:key", []byte("c")))

	require.NoError(t, c.InvalidatePrefix(ctx, "leaderboard:v1:"))

	_, err := c.Get(ctx, "leaderboard:v1:daily:overall:100")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = c.Get(ctx, "leaderboard:v1:weekly:reading:50")
	assert.ErrorIs(t, err, ErrMiss)

	val, err := c.Get(ctx, "other:key")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), val)
}

func TestInvalidatePrefixNoKeys(t *testing.T) {
	c := newTestCache(t)
	assert.NoError(t, c.InvalidatePrefix(context.Background(), "leaderboard:v1:"))
}

func TestNilCacheIsPassThrough(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	_, err := c.Get(ctx, "any")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, c.Set(ctx, "any", []byte("x")))
	assert.NoError(t, c.InvalidatePrefix(ctx, "any"))
	assert.NoError(t, c.Close())
}
