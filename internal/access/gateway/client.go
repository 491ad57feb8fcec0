// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/toolauth/internal/access/denial"
	"github.com/taibuivan/toolauth/internal/platform/constants"
	"github.com/taibuivan/toolauth/internal/platform/ctxutil"
	"github.com/taibuivan/toolauth/pkg/uuid"
)

// # Outcomes

// Outcome classifies a gateway exchange.
type Outcome string

const (
	OutcomeAllowed Outcome = "allowed"
	OutcomeDenied  Outcome = "denied"
	OutcomeError   Outcome = "error"
)

// Classify maps an HTTP status to an [Outcome]. Status 0 means no response.
func Classify(httpStatus int) Outcome {
	switch httpStatus {
	case 201:
		return OutcomeAllowed
	case 0:
		return OutcomeError
	default:
		return OutcomeDenied
	}
}

// # Call & Result

// Call is one gateway invocation.
type Call struct {
	URL      string
	Timeout  time.Duration
	DryRun   bool
	Envelope Envelope
	Details  Details
}

// Result is the uniform record of a gateway exchange.
type Result struct {
	RequestID  string        `json:"request_id"`
	HTTPStatus int           `json:"http_status"`
	Body       string        `json:"-"`
	Latency    time.Duration `json:"-"`
	Outcome    Outcome       `json:"outcome"`
	DryRun     bool          `json:"dry_run,omitempty"`
}

// # Client

// Client sends signed envelopes to the gateway.
type Client struct {
	sender Sender
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option customizes a [Client].
type Option func(*Client)

// WithClock replaces the wall clock used for latency.
func WithClock(now func() time.Time) Option {
	return func(client *Client) { client.now = now }
}

// WithIDGenerator replaces the correlation id generator.
func WithIDGenerator(newID func() string) Option {
	return func(client *Client) { client.newID = newID }
}

// NewClient constructs a [Client].
func NewClient(sender Sender, logger *slog.Logger, options ...Option) *Client {
	client := &Client{
		sender: sender,
		logger: logger,
		now:    time.Now,
		newID:  uuid.New,
	}
	for _, option := range options {
		option(client)
	}
	return client
}

/*
Send performs one gateway exchange.

Description: In dry-run mode no network I/O happens and a synthetic 201 is
returned. Otherwise a single POST is made with the clamped timeout; transport
failures become status 0 with the error text as body. Exactly one log record
is emitted per call, whatever the outcome.

Parameters:
  - ctx: context.Context
  - call: Call

Returns:
  - Result: never an error; failures are encoded as OutcomeError
*/
func (client *Client) Send(ctx context.Context, call Call) Result {
	result := Result{RequestID: client.newID(), DryRun: call.DryRun}

	// 1. Dry run short circuit
	if call.DryRun {
		result.HTTPStatus = constants.DryRunStatus
		result.Body = constants.DryRunBody
		result.Outcome = Classify(result.HTTPStatus)
		client.log(ctx, call, result)
		return result
	}

	// 2. Single bounded attempt
	started := client.now()
	response, err := client.sender.Post(ctx, call.URL, call.Envelope.Headers(), call.Envelope.Body, ClampTimeout(call.Timeout))
	result.Latency = client.now().Sub(started)

	// 3. Classify
	if err != nil {
		result.HTTPStatus = 0
		result.Body = err.Error()
	} else {
		result.HTTPStatus = response.Status
		result.Body = response.Body
	}
	result.Outcome = Classify(result.HTTPStatus)

	client.log(ctx, call, result)
	return result
}

// ClampTimeout applies the default to non-positive timeouts and caps large ones.
func ClampTimeout(timeout time.Duration) time.Duration {
	switch {
	case timeout <= 0:
		return constants.DefaultGatewayTimeout
	case timeout > constants.MaxGatewayTimeout:
		return constants.MaxGatewayTimeout
	default:
		return timeout
	}
}

func (client *Client) log(ctx context.Context, call Call, result Result) {
	level := slog.LevelInfo
	switch result.Outcome {
	case OutcomeDenied:
		level = slog.LevelWarn
	case OutcomeError:
		level = slog.LevelError
	}

	attributes := []slog.Attr{
		slog.String("request_id", result.RequestID),
		slog.String("http_request_id", ctxutil.GetRequestID(ctx)),
		slog.String("uid", call.Details.UserID),
		slog.String("email", call.Details.Email),
		slog.String("card_id", call.Envelope.Payload.CardID),
		slog.String("asset_id", call.Details.AssetID),
		slog.String("permission_id", call.Details.PermissionID),
		slog.String("reader_name", call.Envelope.Payload.ReaderName),
		slog.String("source", call.Details.Source),
		slog.Int("http_status", result.HTTPStatus),
		slog.Int64("latency_ms", result.Latency.Milliseconds()),
		slog.String("result", string(result.Outcome)),
		slog.String("reason", denial.Excerpt(result.Body, constants.ReasonExcerptLimit)),
		slog.Bool("dry_run", call.DryRun),
	}
	if call.DryRun {
		attributes = append(attributes, slog.String("payload", string(call.Envelope.Body)))
	}

	client.logger.LogAttrs(ctx, level, "gateway_request_completed", attributes...)
}
