// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil carries the per-request values of the access API through
[context.Context]: the X-Request-ID, the request-scoped logger and the
verified actor claims.

Middleware writes them; handlers and the respond package read them back.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/toolauth/internal/platform/ctxkey"
	"github.com/taibuivan/toolauth/internal/platform/sec"
)

// # Correlation

// WithRequestID attaches the X-Request-ID of an access call.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the X-Request-ID, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Logging

// WithLogger attaches the request logger (already tagged with request_id, method and path).
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Actor

// WithAuthUser attaches the claims of the member or admin making the call.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, user)
}

// GetAuthUser returns the actor claims, or nil when the call is anonymous.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	return claims
}
