// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/toolauth/internal/platform/ctxutil"
	"github.com/taibuivan/toolauth/internal/platform/sec"
	"github.com/taibuivan/toolauth/pkg/uuid"
)

/*
TestRequestID correlates an access call with its gateway log lines.
*/
func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	requestID := uuid.New()
	ctx = ctxutil.WithRequestID(ctx, requestID)

	// Values added further down the chain keep the id
	ctx = ctxutil.WithAuthUser(ctx, &sec.AuthClaims{UserID: "u1"})
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestLogger returns the request logger with its tags, or the default one.
*/
func TestLogger(t *testing.T) {
	tests := []struct {
		name   string
		logger func(*bytes.Buffer) *slog.Logger
		tagged bool
	}{
		{"missing", func(*bytes.Buffer) *slog.Logger { return nil }, false},
		{"request_scoped", func(buffer *bytes.Buffer) *slog.Logger {
			return slog.New(slog.NewJSONHandler(buffer, nil)).With(slog.String("request_id", "req-1"), slog.String("path", "/api/v1/access/proxy"))
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buffer bytes.Buffer
			ctx := context.Background()
			if logger := tt.logger(&buffer); logger != nil {
				ctx = ctxutil.WithLogger(ctx, logger)
			}

			logger := ctxutil.GetLogger(ctx)
			require.NotNil(t, logger)

			if !tt.tagged {
				assert.Equal(t, slog.Default(), logger)
				return
			}

			logger.InfoContext(ctx, "access_request_rejected", slog.String("asset_id", "lathe"))

			var record map[string]any
			require.NoError(t, json.Unmarshal(buffer.Bytes(), &record))
			assert.Equal(t, "req-1", record["request_id"])
			assert.Equal(t, "/api/v1/access/proxy", record["path"])
			assert.Equal(t, "lathe", record["asset_id"])
		})
	}
}

/*
TestAuthUser carries the member behind an access request.
*/
func TestAuthUser(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetAuthUser(ctx))

	actor := &sec.AuthClaims{UserID: "u1", Email: "u1@example.org", Role: string(sec.RoleMember)}
	ctx = ctxutil.WithAuthUser(ctx, actor)

	claims := ctxutil.GetAuthUser(ctx)
	require.NotNil(t, claims)
	assert.Same(t, actor, claims)
	assert.Equal(t, "u1@example.org", claims.Email)
	assert.Equal(t, string(sec.RoleMember), claims.Role)
}
