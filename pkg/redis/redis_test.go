package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/epaforecast/pkg/config"
)

func TestNew_Disabled(t *testing.T) {
	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestRateLimiter_DisabledAllowsAll(t *testing.T) {
	limiter := NewRateLimiter(NewDisabled(), "test")

	allowed, remaining, err := limiter.Allow(context.Background(), ProviderRateLimit)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, ProviderRateLimit.Limit, remaining)
	assert.NoError(t, limiter.Wait(context.Background(), ProviderRateLimit))
}

func TestCache_DisabledIsNoop(t *testing.T) {
	cache := NewCache(NewDisabled(), "test")
	ctx := context.Background()

	require.NoError(t, cache.SetBytes(ctx, "k", []byte("v"), time.Minute))
	_, found, err := cache.GetBytes(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	var dest []int
	found, err = cache.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Delete(ctx, "k"))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "provider:player_stats:2023:csv", SeasonCSVKey("player_stats", 2023))
	assert.Equal(t, "provider:player_stats:seasons", SeasonListKey("player_stats"))
}

// REDIS_ADDR가 있을 때만 실행
func TestCache_RoundTripLive(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(context.Background()).Err())

	cache := NewCache(NewFromRedis(rdb), "epa-test")
	ctx := context.Background()
	key := SeasonCSVKey("player_stats", 1999)
	defer cache.Delete(ctx, key)

	require.NoError(t, cache.SetBytes(ctx, key, []byte("a,b\n1,2\n"), time.Minute))
	data, found, err := cache.GetBytes(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a,b\n1,2\n", string(data))

	limiter := NewRateLimiter(NewFromRedis(rdb), "epa-test")
	cfg := RateLimitConfig{Key: "live", Limit: 1, Window: time.Second}
	allowed, _, err := limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, allowed)
	allowed, _, err = limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, allowed)
}
