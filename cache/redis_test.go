package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCheckRateLimitWindow(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	for i := 2; i >= 0; i-- {
		res, err := c.CheckRateLimit(ctx, "10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, i, res.Remaining)
	}

	res, err := c.CheckRateLimit(ctx, "10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Minute, res.RetryAfter)

	other, err := c.CheckRateLimit(ctx, "10.0.0.2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	mr.FastForward(time.Minute + time.Second)
	res, err = c.CheckRateLimit(ctx, "10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestCheckRateLimitRepairsMissingExpiry(t *testing.T) {
	c, mr := newTestClient(t)
	require.NoError(t, mr.Set(RateLimitPrefix+"ip", "5"))

	res, err := c.CheckRateLimit(context.Background(), "ip", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Minute, res.RetryAfter)
	assert.Equal(t, time.Minute, mr.TTL(RateLimitPrefix+"ip"))

	mr.FastForward(time.Minute + time.Second)
	res, err = c.CheckRateLimit(context.Background(), "ip", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestNewPingsServer(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := New(context.Background(), Options{URL: mr.Addr()})
	require.NoError(t, err)
	assert.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Close())

	c, err = New(context.Background(), Options{URL: "redis://" + mr.Addr() + "/0"})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	addr := mr.Addr()
	mr.Close()
	_, err = New(context.Background(), Options{URL: addr})
	assert.Error(t, err)
}

func TestCloseNilClient(t *testing.T) {
	var c *Client
	assert.NoError(t, c.Close())
}
