// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package request

import (
	"net/http"
	"time"

	"github.com/taibuivan/toolauth/internal/access/gateway"
)

// # Result Surface

// Status is the terminal state of one access request.
type Status string

const (
	StatusAllowed       Status = "allowed"
	StatusDenied        Status = "denied"
	StatusError         Status = "error"
	StatusRateLimited   Status = "rate_limited"
	StatusNoCredential  Status = "no_credential"
	StatusBlocked       Status = "blocked"
	StatusNotConfigured Status = "not_configured"
)

// HTTPStatus is the response code the handler uses for a status.
func (status Status) HTTPStatus() int {
	switch status {
	case StatusAllowed, StatusDenied:
		return http.StatusOK
	case StatusError:
		return http.StatusBadGateway
	case StatusRateLimited:
		return http.StatusTooManyRequests
	case StatusNoCredential:
		return http.StatusUnprocessableEntity
	case StatusBlocked:
		return http.StatusForbidden
	default:
		return http.StatusServiceUnavailable
	}
}

// Member-facing messages for states that do not come from the denial policy.
const (
	MessageAllowed       = "Request submitted successfully."
	MessageNoCredential  = "No card found associated with your account. Please contact support."
	MessageBlocked       = "Your account is not allowed to request access. Please contact support."
	MessageNotConfigured = "The access system is not configured yet. Please contact support."
	MessageRateLimited   = "Too many access requests. Please wait a moment and try again."
	MessageInvalidAsset  = "Invalid asset identifier provided."
)

// Result is what callers of the flow receive.
//
// Outcome, HTTPStatus and RequestID are set only when the gateway was invoked.
type Result struct {
	Status       Status          `json:"status"`
	Outcome      gateway.Outcome `json:"outcome,omitempty"`
	HTTPStatus   int             `json:"http_status,omitempty"`
	Reason       string          `json:"reason,omitempty"`
	Message      string          `json:"message"`
	Latency      time.Duration   `json:"-"`
	LatencyMS    int64           `json:"latency_ms"`
	RequestID    string          `json:"request_id,omitempty"`
	AssetID      string          `json:"asset_id"`
	ReaderName   string          `json:"reader_name,omitempty"`
	PermissionID string          `json:"permission_id,omitempty"`
	RetryAfter   int             `json:"retry_after,omitempty"`
	DryRun       bool            `json:"dry_run,omitempty"`
}
