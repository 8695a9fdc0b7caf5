package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Step  string `json:"step"`
	Total int64  `json:"total"`
}

func TestMemoryCache_JSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, SetJSON(ctx, c, "booking:1", payload{Step: "payment", Total: 9000000}, time.Minute))

	var got payload
	found, err := GetJSON(ctx, c, "booking:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "payment", got.Step)
	assert.Equal(t, int64(9000000), got.Total)
}

func TestMemoryCache_MissAndExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	var got payload
	found, err := GetJSON(ctx, c, "absent", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	now = now.Add(2 * time.Minute)

	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCache_Del(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Del(ctx, "k"))

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}
