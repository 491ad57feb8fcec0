// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache memoizes the last parsed asset map.
//
// An entry is reused only while the map text has the same checksum and the
// entry is younger than the TTL, so a settings change is visible on the next
// call and no entry outlives the TTL.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	checksum uint64
	registry *Registry
	err      error
	loadedAt time.Time
}

// CacheOption customizes a [Cache].
type CacheOption func(*Cache)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) CacheOption {
	return func(cache *Cache) { cache.now = now }
}

// NewCache creates a [Cache]. A non-positive ttl disables reuse entirely.
func NewCache(ttl time.Duration, options ...CacheOption) *Cache {
	cache := &Cache{ttl: ttl, now: time.Now}
	for _, option := range options {
		option(cache)
	}
	return cache
}

// Load returns the registry for text, parsing only when the cached entry is unusable.
//
// The registry is never nil; on a parse error it is empty and the error is
// returned alongside it so callers can log and continue.
func (cache *Cache) Load(text string) (*Registry, error) {
	checksum := xxhash.Sum64String(text)
	now := cache.now()

	cache.mu.Lock()
	defer cache.mu.Unlock()

	if cache.registry != nil && cache.checksum == checksum && now.Sub(cache.loadedAt) < cache.ttl {
		return cache.registry, cache.err
	}

	registry, err := Parse(text)
	cache.checksum = checksum
	cache.registry = registry
	cache.err = err
	cache.loadedAt = now

	return registry, err
}
