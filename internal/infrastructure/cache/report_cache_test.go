package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryReportCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryReportCache()

	require.NoError(t, c.Set(ctx, "stats:2024", []byte(`{"total":10}`), time.Minute))

	val, found, err := c.Get(ctx, "stats:2024")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"total":10}`), val)
}

func TestInMemoryReportCache_Miss(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryReportCache()

	_, found, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemoryReportCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryReportCache()

	require.NoError(t, c.Set(ctx, "short", []byte("v"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, found, err := c.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemoryReportCache_InvalidateAll(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryReportCache()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))

	require.NoError(t, c.InvalidateAll(ctx))

	_, found, _ := c.Get(ctx, "a")
	assert.False(t, found)
	_, found, _ = c.Get(ctx, "b")
	assert.False(t, found)
}
