// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request runs one physical-access request end to end.

# Flow

 1. Rate gate: at most N attempts per actor per window.
 2. Configuration: a gateway URL is required unless dry run is on.
 3. Credential: the member's card serial, or stop.
 4. Standing: account flags; a blocked member stops here.
 5. Asset: resolve reader name and permission id.
 6. Payload: canonical body plus optional HMAC signature.
 7. Gateway: one bounded POST (or a dry run).
 8. Denial policy: for anything but HTTP 201.

Steps 1 to 4 never reach the gateway. Domain outcomes are values of [Result];
only infrastructure failures are returned as errors.
*/
package request

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/toolauth/internal/access/asset"
	"github.com/taibuivan/toolauth/internal/access/credential"
	"github.com/taibuivan/toolauth/internal/access/denial"
	"github.com/taibuivan/toolauth/internal/access/gateway"
	"github.com/taibuivan/toolauth/internal/access/ratelimit"
	"github.com/taibuivan/toolauth/internal/access/settings"
	"github.com/taibuivan/toolauth/internal/users/member"
)

// # Collaborators

// SettingsSource provides the effective access settings.
type SettingsSource interface {
	Current(ctx context.Context) (settings.Settings, error)
}

// CredentialResolver finds the card serial of a member.
type CredentialResolver interface {
	Resolve(ctx context.Context, userID string) (credential.Credential, bool, error)
}

// StandingLoader reads the account flags of a member.
type StandingLoader interface {
	Load(ctx context.Context, userID string, rules member.StandingRules) (denial.Attributes, error)
}

// Gateway sends one envelope.
type Gateway interface {
	Send(ctx context.Context, call gateway.Call) gateway.Result
}

// HealthProbe checks the gateway health endpoint.
type HealthProbe interface {
	Check(ctx context.Context, gatewayURL string, timeout time.Duration) gateway.Health
}

// RateGate bounds attempts per actor.
type RateGate interface {
	Check(ctx context.Context, actorID string, limit int, window time.Duration) ratelimit.Decision
}

// Dependencies groups the collaborators of a [Service].
type Dependencies struct {
	Settings    SettingsSource
	Credentials CredentialResolver
	Standing    StandingLoader
	Gateway     Gateway
	Health      HealthProbe
	RateGate    RateGate
	Assets      *asset.Cache
}

// # Inputs

// Actor is the authenticated member making the request.
type Actor struct {
	UserID string
	Email  string
}

// Input is one access request.
type Input struct {
	AssetID string

	// Source tags how the request was made (qr, website, proxy or a caller tag).
	Source string
}

// # Service Layer

// Service orchestrates the access request flow.
type Service struct {
	deps   Dependencies
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a request [Service].
func NewService(deps Dependencies, logger *slog.Logger) *Service {
	return &Service{deps: deps, logger: logger, now: time.Now}
}

/*
Perform runs the flow for one access request.

Parameters:
  - ctx: context.Context
  - actor: Actor (already authenticated)
  - input: Input (asset id already validated)

Returns:
  - Result: the terminal state and member-facing message
  - error: settings, member store or encoding failures
*/
func (service *Service) Perform(ctx context.Context, actor Actor, input Input) (Result, error) {
	result := Result{AssetID: input.AssetID}

	current, err := service.deps.Settings.Current(ctx)
	if err != nil {
		return Result{}, err
	}

	// 1. Rate gate
	decision := service.deps.RateGate.Check(ctx, actor.UserID, current.RateLimit, current.RateWindow())
	if !decision.Allowed {
		result.Status = StatusRateLimited
		result.Message = MessageRateLimited
		result.RetryAfter = decision.RetryAfter(service.now())
		service.logger.WarnContext(ctx, "rate_limit_exceeded",
			slog.String("uid", actor.UserID),
			slog.String("asset_id", input.AssetID),
			slog.Int("limit", decision.Limit),
			slog.Int("retry_after", result.RetryAfter),
		)
		return result, nil
	}

	// 2. Configuration
	if !current.Configured() && !current.DryRun {
		result.Status = StatusNotConfigured
		result.Message = MessageNotConfigured
		service.logger.ErrorContext(ctx, "gateway_not_configured", slog.String("asset_id", input.AssetID))
		return result, nil
	}

	// 3. Credential
	card, found, err := service.deps.Credentials.Resolve(ctx, actor.UserID)
	if err != nil {
		return Result{}, err
	}
	if !found {
		result.Status = StatusNoCredential
		result.Message = MessageNoCredential
		service.logger.WarnContext(ctx, "credential_missing",
			slog.String("uid", actor.UserID),
			slog.String("asset_id", input.AssetID),
		)
		return result, nil
	}

	// 4. Standing
	standing, err := service.deps.Standing.Load(ctx, actor.UserID, member.StandingRules{
		MemberRole:     current.MemberRole,
		BlockAttribute: current.UserBlockField,
	})
	if err != nil {
		return Result{}, err
	}
	if standing.Blocked {
		result.Status = StatusBlocked
		result.Message = current.UserBlockMessage
		if result.Message == "" {
			result.Message = MessageBlocked
		}
		service.logger.WarnContext(ctx, "access_request_blocked",
			slog.String("uid", actor.UserID),
			slog.String("asset_id", input.AssetID),
			slog.String("field", current.UserBlockField),
		)
		return result, nil
	}

	// 5. Asset
	registry, err := service.deps.Assets.Load(current.AssetMap)
	if err != nil {
		service.logger.ErrorContext(ctx, "asset_map_parse_failed", slog.Any("error", err))
	}
	resolution := registry.Resolve(input.AssetID)
	result.ReaderName = resolution.ReaderName
	result.PermissionID = resolution.PermissionID

	// 6. Payload
	envelope, err := gateway.Build(resolution.ReaderName, card.CardID, current.HMACSecret)
	if err != nil {
		return Result{}, err
	}

	// 7. Gateway
	sent := service.deps.Gateway.Send(ctx, gateway.Call{
		URL:      current.GatewayURL,
		Timeout:  current.Timeout(),
		DryRun:   current.DryRun,
		Envelope: envelope,
		Details: gateway.Details{
			UserID:       actor.UserID,
			Email:        actor.Email,
			AssetID:      input.AssetID,
			PermissionID: resolution.PermissionID,
			Source:       input.Source,
		},
	})

	result.Outcome = sent.Outcome
	result.HTTPStatus = sent.HTTPStatus
	result.RequestID = sent.RequestID
	result.Latency = sent.Latency
	result.LatencyMS = sent.Latency.Milliseconds()
	result.DryRun = sent.DryRun

	// 8. Interpret
	switch sent.Outcome {
	case gateway.OutcomeAllowed:
		result.Status = StatusAllowed
		result.Message = MessageAllowed
	default:
		verdict := denial.NewPolicy(current.Messages, current.PaymentURL).Evaluate(standing, sent.HTTPStatus, sent.Body)
		result.Status = StatusDenied
		if sent.Outcome == gateway.OutcomeError {
			result.Status = StatusError
		}
		result.Reason = string(verdict.Reason)
		result.Message = verdict.Message
	}

	return result, nil
}

// # Catalogue & Operations

// ListAssets returns the mapped assets, optionally for one category.
//
// An unparsable map lists nothing and is logged.
func (service *Service) ListAssets(ctx context.Context, category string) ([]asset.Asset, error) {
	current, err := service.deps.Settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	registry, err := service.deps.Assets.Load(current.AssetMap)
	if err != nil {
		service.logger.ErrorContext(ctx, "asset_map_parse_failed", slog.Any("error", err))
	}

	return registry.List(category), nil
}

// GatewayHealth probes the configured gateway.
func (service *Service) GatewayHealth(ctx context.Context) (gateway.Health, error) {
	current, err := service.deps.Settings.Current(ctx)
	if err != nil {
		return gateway.Health{}, err
	}

	return service.deps.Health.Check(ctx, current.GatewayURL, current.Timeout()), nil
}
