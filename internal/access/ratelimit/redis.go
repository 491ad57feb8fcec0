// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// attemptScript registers an attempt only when the window has room.
// Returns {allowed, count, pttl}.
var attemptScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current >= tonumber(ARGV[1]) then
  return {0, current, redis.call("PTTL", KEYS[1])}
end
current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return {1, current, redis.call("PTTL", KEYS[1])}
`)

// registerScript opens or extends the count of a window.
var registerScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisLimiter is a fixed-window [Limiter] shared through Redis.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisLimiter creates a [RedisLimiter] whose keys start with prefix.
func NewRedisLimiter(client *redis.Client, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, now: time.Now}
}

// IsAllowed implements [Limiter].
func (limiter *RedisLimiter) IsAllowed(ctx context.Context, key string, limit int, length time.Duration) (Decision, error) {
	redisKey := limiter.prefix + key

	pipe := limiter.client.Pipeline()
	get := pipe.Get(ctx, redisKey)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return Decision{}, fmt.Errorf("ratelimit_redis_is_allowed_failed: %w", err)
	}

	count, err := get.Int()
	if err != nil && err != redis.Nil {
		return Decision{}, fmt.Errorf("ratelimit_redis_is_allowed_failed: %w", err)
	}

	return decide(count < limit, count, limit, limiter.resetAt(ttl.Val(), length)), nil
}

// Register implements [Limiter].
func (limiter *RedisLimiter) Register(ctx context.Context, key string, length time.Duration) error {
	if err := registerScript.Run(ctx, limiter.client, []string{limiter.prefix + key}, length.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("ratelimit_redis_register_failed: %w", err)
	}
	return nil
}

// Attempt implements [Limiter] atomically inside Redis.
func (limiter *RedisLimiter) Attempt(ctx context.Context, key string, limit int, length time.Duration) (Decision, error) {
	result, err := attemptScript.Run(ctx, limiter.client, []string{limiter.prefix + key}, limit, length.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit_redis_attempt_failed: %w", err)
	}
	if len(result) < 3 {
		return Decision{}, fmt.Errorf("ratelimit_redis_attempt_failed: unexpected script result %v", result)
	}

	ttl := time.Duration(result[2]) * time.Millisecond
	return decide(result[0] == 1, int(result[1]), limit, limiter.resetAt(ttl, length)), nil
}

// resetAt converts a PTTL into an absolute time. Missing or persistent keys reset after one window.
func (limiter *RedisLimiter) resetAt(ttl, length time.Duration) time.Time {
	if ttl < 0 {
		ttl = length
	}
	return limiter.now().Add(ttl)
}
