// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/toolauth/internal/platform/config"
)

/*
TestLoad_Defaults verifies that the access bootstrap block picks up its defaults.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/toolauth")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "/keys/public.pem")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 5, cfg.Access.TimeoutSeconds)
	assert.Equal(t, 10, cfg.Access.RateLimit)
	assert.Equal(t, time.Minute, cfg.Access.RateWindow)
	assert.Equal(t, "member", cfg.Access.MemberRole)
	assert.False(t, cfg.Access.DryRun)
}

/*
TestLoad_AccessOverrides checks the ACCESS_ prefix mapping.
*/
func TestLoad_AccessOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/toolauth")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "/keys/public.pem")
	t.Setenv("ACCESS_GATEWAY_URL", "https://gw.example.org/toolauth/req")
	t.Setenv("ACCESS_HMAC_SECRET", "s3cret")
	t.Setenv("ACCESS_DRY_RUN", "true")
	t.Setenv("ACCESS_RATE_WINDOW", "30s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://gw.example.org/toolauth/req", cfg.Access.GatewayURL)
	assert.Equal(t, "s3cret", cfg.Access.HMACSecret)
	assert.True(t, cfg.Access.DryRun)
	assert.Equal(t, 30*time.Second, cfg.Access.RateWindow)
}

/*
TestLoad_MissingRequired ensures required variables are enforced.
*/
func TestLoad_MissingRequired(t *testing.T) {
	for _, name := range []string{"DATABASE_URL", "REDIS_URL", "JWT_PUBLIC_KEY_PATH"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	_, err := config.Load()
	assert.Error(t, err)
}
