// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/toolauth/internal/platform/constants"
)

// Gate is the per-actor rate check run before any other step of an access request.
type Gate struct {
	primary  Limiter
	fallback Limiter
	logger   *slog.Logger
	now      func() time.Time
}

// NewGate creates a [Gate]. primary may be nil, in which case fallback is used alone.
func NewGate(primary, fallback Limiter, logger *slog.Logger) *Gate {
	return &Gate{primary: primary, fallback: fallback, logger: logger, now: time.Now}
}

// Key builds the limiter key of an actor.
func Key(actorID string) string {
	return constants.RedisPrefixAccessRate + actorID
}

/*
Check registers one attempt for actorID if the window has room.

Description: A non-positive limit disables the gate. When the primary store
fails the fallback decides. When both fail the attempt is allowed.

Parameters:
  - ctx: context.Context
  - actorID: string
  - limit: int
  - window: time.Duration

Returns:
  - Decision
*/
func (gate *Gate) Check(ctx context.Context, actorID string, limit int, window time.Duration) Decision {
	if limit <= 0 {
		return Decision{Allowed: true}
	}

	key := Key(actorID)

	if gate.primary != nil {
		decision, err := gate.primary.Attempt(ctx, key, limit, window)
		if err == nil {
			return decision
		}
		gate.logger.WarnContext(ctx, "rate_limit_store_unavailable",
			slog.String("actor_id", actorID),
			slog.Any("error", err),
		)
	}

	if gate.fallback != nil {
		decision, err := gate.fallback.Attempt(ctx, key, limit, window)
		if err == nil {
			return decision
		}
		gate.logger.ErrorContext(ctx, "rate_limit_fallback_failed",
			slog.String("actor_id", actorID),
			slog.Any("error", err),
		)
	}

	return Decision{Allowed: true, Limit: limit, Remaining: limit, ResetAt: gate.now().Add(window)}
}
