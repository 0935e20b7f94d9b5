package redis

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a sliding-window limiter shared by every process using the same Redis
// ⭐ SSOT: 프로세스 간 레이트 리밋은 여기서만 (프로세스 내부는 x/time/rate)
type RateLimiter struct {
	client *Client
	prefix string
	seq    atomic.Uint64 // 같은 ms 요청의 ZSET member 충돌 방지
}

// RateLimitConfig defines a request budget per window
type RateLimitConfig struct {
	Key    string
	Limit  int
	Window time.Duration
}

// ProviderRateLimit is shared across processes hitting the nflverse release host
// GitHub 릴리스 다운로드: 분당 30회 (보수적)
var ProviderRateLimit = RateLimitConfig{
	Key:    "nflverse",
	Limit:  30,
	Window: time.Minute,
}

// KEYS[1]=window key, ARGV = now_ms, window_ms, limit, member
// 반환: {allowed, remaining, retry_after_ms}
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count < limit then
	redis.call('ZADD', key, now, ARGV[4])
	redis.call('PEXPIRE', key, window)
	return {1, limit - count - 1, 0}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local wait = window
if oldest[2] then
	wait = tonumber(oldest[2]) + window - now
end
return {0, 0, wait}
`)

// NewRateLimiter creates a new rate limiter; keys are "<prefix>:<cfg.Key>"
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
	}
}

// Allow records one request if the budget allows it
// Returns (allowed, remaining, error)
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (bool, int, error) {
	allowed, remaining, _, err := r.take(ctx, cfg)
	return allowed, remaining, err
}

// Wait blocks until a request is allowed or ctx is done
func (r *RateLimiter) Wait(ctx context.Context, cfg RateLimitConfig) error {
	for {
		allowed, _, retryAfter, err := r.take(ctx, cfg)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryAfter):
		}
	}
}

func (r *RateLimiter) take(ctx context.Context, cfg RateLimitConfig) (bool, int, time.Duration, error) {
	if !r.client.Enabled() {
		return true, cfg.Limit, 0, nil
	}

	now := time.Now().UnixMilli()
	member := strconv.FormatInt(now, 10) + "-" + strconv.FormatUint(r.seq.Add(1), 10)

	res, err := slidingWindow.Run(ctx, r.client.Redis(), []string{r.prefix + ":" + cfg.Key},
		now, cfg.Window.Milliseconds(), cfg.Limit, member).Int64Slice()
	if err != nil {
		return false, 0, 0, fmt.Errorf("rate limit %s: %w", cfg.Key, err)
	}

	retryAfter := time.Duration(res[2]) * time.Millisecond
	if retryAfter < 10*time.Millisecond {
		retryAfter = 10 * time.Millisecond
	}
	return res[0] == 1, int(res[1]), retryAfter, nil
}
