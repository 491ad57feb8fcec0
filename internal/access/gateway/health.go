// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/toolauth/internal/access/denial"
	"github.com/taibuivan/toolauth/internal/platform/constants"
)

// HealthStatus summarizes a health probe.
type HealthStatus string

const (
	HealthOK            HealthStatus = "ok"
	HealthOptional      HealthStatus = "optional"
	HealthFailed        HealthStatus = "failed"
	HealthUnreachable   HealthStatus = "unreachable"
	HealthNotConfigured HealthStatus = "not_configured"
)

// Health is the report of one probe.
type Health struct {
	Status     HealthStatus `json:"status"`
	URL        string       `json:"url,omitempty"`
	HTTPStatus int          `json:"http_status,omitempty"`
	LatencyMS  int64        `json:"latency_ms"`
	Body       string       `json:"body,omitempty"`
}

/*
HealthURL derives the health endpoint from the gateway URL.

Description: A URL ending in the request path has it swapped for /health.
Any other URL keeps its scheme and host and gets /health as path. Returns ""
when the URL cannot be parsed.
*/
func HealthURL(gatewayURL string) string {
	gatewayURL = strings.TrimSpace(gatewayURL)
	if gatewayURL == "" {
		return ""
	}

	if strings.HasSuffix(gatewayURL, constants.GatewayRequestPath) {
		return strings.TrimSuffix(gatewayURL, constants.GatewayRequestPath) + constants.GatewayHealthPath
	}

	parsed, err := url.Parse(gatewayURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host + constants.GatewayHealthPath
}

// HealthChecker probes the gateway health endpoint.
type HealthChecker struct {
	prober Prober
	now    func() time.Time
}

// NewHealthChecker constructs a [HealthChecker].
func NewHealthChecker(prober Prober) *HealthChecker {
	return &HealthChecker{prober: prober, now: time.Now}
}

/*
Check probes the gateway.

Description: 200 is ok. 404 means the gateway does not implement the endpoint,
which is reported as optional rather than failed.
*/
func (checker *HealthChecker) Check(ctx context.Context, gatewayURL string, timeout time.Duration) Health {
	healthURL := HealthURL(gatewayURL)
	if healthURL == "" {
		return Health{Status: HealthNotConfigured}
	}

	started := checker.now()
	response, err := checker.prober.Get(ctx, healthURL, ClampTimeout(timeout))
	health := Health{URL: healthURL, LatencyMS: checker.now().Sub(started).Milliseconds()}

	if err != nil {
		health.Status = HealthUnreachable
		health.Body = denial.Excerpt(err.Error(), constants.ReasonExcerptLimit)
		return health
	}

	health.HTTPStatus = response.Status
	health.Body = denial.Excerpt(response.Body, constants.ReasonExcerptLimit)

	switch response.Status {
	case http.StatusOK:
		health.Status = HealthOK
	case http.StatusNotFound:
		health.Status = HealthOptional
	default:
		health.Status = HealthFailed
	}

	return health
}
