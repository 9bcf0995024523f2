//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "start redis container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err, "redis connection string")
	return url
}

func TestRedisCacheIntegration(t *testing.T) {
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{URL: startRedis(t)})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Health(ctx))

	_, hit, err := c.Get(ctx, "solve:missing")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "solve:abc", []byte("payload"), time.Minute))
	data, hit, err := c.Get(ctx, "solve:abc")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "payload", string(data))

	require.NoError(t, c.Delete(ctx, "solve:abc"))
	_, hit, err = c.Get(ctx, "solve:abc")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCacheExpiryIntegration(t *testing.T) {
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{URL: startRedis(t)})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "solve:short", []byte("x"), 50*time.Millisecond))
	assert.Eventually(t, func() bool {
		_, hit, err := c.Get(ctx, "solve:short")
		return err == nil && !hit
	}, 2*time.Second, 20*time.Millisecond)
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisOptions{URL: "http://nope"})
	assert.Error(t, err)
}
