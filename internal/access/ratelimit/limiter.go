// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ratelimit bounds how often one actor may request access.

Windows are fixed: the first registered attempt opens a window of the given
length and at most limit attempts are registered inside it. A rejected
attempt is not registered, so it never extends the window or consumes quota.

Two stores implement [Limiter]: [RedisLimiter] for shared state between API
replicas and [MemoryLimiter] for a single process. [Gate] prefers Redis and
falls back to memory when Redis is unavailable.
*/
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of one limiter call.
type Decision struct {
	Allowed   bool      `json:"allowed"`
	Count     int       `json:"count"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// RetryAfter is the time left until the window resets, rounded up to whole seconds.
func (decision Decision) RetryAfter(now time.Time) int {
	left := decision.ResetAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

// Limiter is the rate-limit store capability.
type Limiter interface {

	// IsAllowed reports whether one more attempt fits in the window, without registering it.
	IsAllowed(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)

	// Register records one attempt, opening a window if none is active.
	Register(ctx context.Context, key string, window time.Duration) error

	// Attempt is IsAllowed followed by Register when allowed, as one atomic step.
	Attempt(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

// # In-Memory Store

// MemoryLimiter is a process-local fixed-window [Limiter].
type MemoryLimiter struct {
	mu    sync.Mutex
	now   func() time.Time
	items map[string]window
}

type window struct {
	count   int
	resetAt time.Time
}

// NewMemoryLimiter creates an empty [MemoryLimiter].
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{now: time.Now, items: make(map[string]window)}
}

// WithClock replaces the wall clock of a [MemoryLimiter].
func (limiter *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	limiter.now = now
	return limiter
}

// IsAllowed implements [Limiter].
func (limiter *MemoryLimiter) IsAllowed(_ context.Context, key string, limit int, _ time.Duration) (Decision, error) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	current := limiter.current(key)
	return decide(current.count < limit, current.count, limit, current.resetAt), nil
}

// Register implements [Limiter].
func (limiter *MemoryLimiter) Register(_ context.Context, key string, length time.Duration) error {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	limiter.register(key, length)
	return nil
}

// Attempt implements [Limiter].
func (limiter *MemoryLimiter) Attempt(_ context.Context, key string, limit int, length time.Duration) (Decision, error) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	current := limiter.current(key)
	if current.count >= limit {
		return decide(false, current.count, limit, current.resetAt), nil
	}

	registered := limiter.register(key, length)
	return decide(true, registered.count, limit, registered.resetAt), nil
}

// current returns the live window of key, dropping expired ones. Callers hold mu.
func (limiter *MemoryLimiter) current(key string) window {
	now := limiter.now()
	for other, entry := range limiter.items {
		if !now.Before(entry.resetAt) {
			delete(limiter.items, other)
		}
	}
	return limiter.items[key]
}

// register adds one attempt to key. Callers hold mu.
func (limiter *MemoryLimiter) register(key string, length time.Duration) window {
	entry := limiter.current(key)
	if entry.count == 0 {
		entry.resetAt = limiter.now().Add(length)
	}
	entry.count++
	limiter.items[key] = entry
	return entry
}

func decide(allowed bool, count, limit int, resetAt time.Time) Decision {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: allowed, Count: count, Limit: limit, Remaining: remaining, ResetAt: resetAt}
}
