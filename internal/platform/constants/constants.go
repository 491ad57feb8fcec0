// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Edge burst capacities and IP tracking TTLs.
  - Access Flow: Gateway defaults and Redis key taxonomy.
*/
package constants

import "time"

// # Metadata

// AppName tags every log record.
const AppName = "toolauth"

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout must outlive the slowest gateway call.
	DefaultWriteTimeout = 45 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 40 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP at the edge.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the edge limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Access Flow

const (
	// ReaderSuffix is appended to every reader name that does not already end with it.
	ReaderSuffix = "reader"

	// GatewayRequestPath is the path suffix of the gateway's access endpoint.
	GatewayRequestPath = "/toolauth/req"

	// GatewayHealthPath replaces GatewayRequestPath to build the health URL.
	GatewayHealthPath = "/health"

	// DefaultGatewayTimeout applies when the configured timeout is not positive.
	DefaultGatewayTimeout = 5 * time.Second

	// MaxGatewayTimeout caps the configured timeout.
	MaxGatewayTimeout = 30 * time.Second

	// DryRunStatus is the synthetic HTTP status returned in dry-run mode.
	DryRunStatus = 201

	// DryRunBody is the synthetic response body returned in dry-run mode.
	DryRunBody = "Dry run: Card accepted"

	// SignatureHeader carries the HMAC of the request body.
	SignatureHeader = "X-Signature"

	// SignaturePrefix precedes the hex digest in SignatureHeader.
	SignaturePrefix = "sha256="

	// ReasonExcerptLimit bounds the response body shown to end users.
	ReasonExcerptLimit = 300

	// MainProfileType is the profile bundle that may carry a card serial.
	MainProfileType = "main"

	// AccessAssetsPath is the public prefix of the asset routes.
	AccessAssetsPath = "/api/v1/access/assets"
)

// # Request Methods

const (
	MethodWebsite = "website"
	MethodProxy   = "proxy"
	MethodQR      = "qr"
)

// Methods lists the accepted method tags.
var Methods = []string{MethodWebsite, MethodQR, MethodProxy}

const (
	// MaxAssetIDLength bounds asset identifiers taken from URLs and bodies.
	MaxAssetIDLength = 128

	// MaxSourceLength bounds the caller-supplied source tag.
	MaxSourceLength = 64
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderContentType   = "Content-Type"
	MIMEApplicationJSON = "application/json"
)

// # JSON Field Identifiers

const (
	FieldError = "error"
	FieldCode  = "code"
)

// # Settings Keys

const (
	// SettingAccessRequest is the system.setting key holding the access settings JSON.
	SettingAccessRequest = "access_request"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixAccessRate = "access:rate:"
)
