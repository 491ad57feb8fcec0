// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// # Service Layer

// Service serves the current settings through a TTL cache.
type Service struct {
	repo     Repository
	defaults Settings
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time

	// loads collapses concurrent refreshes into one store read.
	loads singleflight.Group

	mu         sync.Mutex
	cached     Settings
	loadedAt   time.Time
	loaded     bool
	generation uint64
}

// NewService constructs a settings [Service].
func NewService(repo Repository, defaults Settings, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		defaults: defaults,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the wall clock.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

/*
Current returns the effective settings.

Description: The stored document wins over the env defaults. A cached value
is reused while it is younger than the TTL. Once it expires, concurrent
callers share a single store read; the lock is never held across it.

Parameters:
  - context: context.Context

Returns:
  - Settings
  - error: Store failures (the cache is left untouched)
*/
func (service *Service) Current(context context.Context) (Settings, error) {
	service.mu.Lock()
	if service.loaded && service.now().Sub(service.loadedAt) < service.ttl {
		cached := service.cached
		service.mu.Unlock()
		return cached, nil
	}
	generation := service.generation
	service.mu.Unlock()

	// A write bumps the generation, so reads started before it are never joined after it
	value, err, _ := service.loads.Do(strconv.FormatUint(generation, 10), func() (any, error) {
		return service.load(context, generation)
	})
	if err != nil {
		return Settings{}, err
	}

	return value.(Settings), nil
}

// load reads the store and caches the result unless a write happened meanwhile.
func (service *Service) load(context context.Context, generation uint64) (Settings, error) {
	stored, found, err := service.repo.Get(context)
	if err != nil {
		return Settings{}, err
	}

	current := service.defaults
	if found {
		current = stored
	}

	service.mu.Lock()
	if service.generation == generation {
		service.cached = current
		service.loadedAt = service.now()
		service.loaded = true
	}
	service.mu.Unlock()

	return current, nil
}

/*
Update validates and stores new settings, then drops the cache.

Parameters:
  - context: context.Context
  - update: Update

Returns:
  - Settings: The stored settings
  - bool: true when this was the first stored document
  - error: Validation or store failures
*/
func (service *Service) Update(context context.Context, update Update) (Settings, bool, error) {
	current, err := service.Current(context)
	if err != nil {
		return Settings{}, false, err
	}

	next := update.Apply(current)
	if err := next.Validate(); err != nil {
		return Settings{}, false, err
	}

	created, err := service.repo.Put(context, next)
	if err != nil {
		return Settings{}, false, err
	}

	service.mu.Lock()
	service.loaded = false
	service.generation++
	service.mu.Unlock()

	service.logger.InfoContext(context, "access_settings_updated",
		slog.String("gateway_url", next.GatewayURL),
		slog.Bool("dry_run", next.DryRun),
		slog.Bool("hmac_secret_set", next.HMACSecret != ""),
		slog.Bool("created", created),
	)

	return next, created, nil
}
