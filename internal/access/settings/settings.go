// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package settings holds the runtime configuration of the access request flow.

Settings are stored as one JSON document in system.setting under the
"access_request" key. When no row exists the env bootstrap values are used.
Reads go through a short TTL cache; writes invalidate it immediately.

The HMAC secret is write-only over HTTP: [View] reports whether one is set
but never returns it.
*/
package settings

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/taibuivan/toolauth/internal/access/asset"
	"github.com/taibuivan/toolauth/internal/access/denial"
	"github.com/taibuivan/toolauth/internal/platform/config"
	"github.com/taibuivan/toolauth/internal/platform/constants"
	"github.com/taibuivan/toolauth/internal/platform/validate"
)

// # Entities

// Settings is the full configuration surface consumed by the access flow.
type Settings struct {
	GatewayURL        string          `json:"gateway_url"`
	TimeoutSeconds    int             `json:"timeout_seconds"`
	HMACSecret        string          `json:"hmac_secret"`
	AssetMap          string          `json:"asset_map"`
	DryRun            bool            `json:"dry_run"`
	UserBlockField    string          `json:"user_block_field"`
	UserBlockMessage  string          `json:"user_block_message"`
	PaymentURL        string          `json:"payment_portal_url"`
	Messages          denial.Messages `json:"messages"`
	MemberRole        string          `json:"member_role"`
	RateLimit         int             `json:"rate_limit"`
	RateWindowSeconds int             `json:"rate_window_seconds"`
}

// Timeout is the gateway timeout as a duration.
func (settings Settings) Timeout() time.Duration {
	return time.Duration(settings.TimeoutSeconds) * time.Second
}

// RateWindow is the limiter window as a duration.
func (settings Settings) RateWindow() time.Duration {
	return time.Duration(settings.RateWindowSeconds) * time.Second
}

// Configured reports whether a gateway URL is set.
func (settings Settings) Configured() bool {
	return settings.GatewayURL != ""
}

// View is the admin-facing projection of [Settings] without the secret.
type View struct {
	GatewayURL        string          `json:"gateway_url"`
	TimeoutSeconds    int             `json:"timeout_seconds"`
	HMACSecretSet     bool            `json:"hmac_secret_set"`
	AssetMap          string          `json:"asset_map"`
	DryRun            bool            `json:"dry_run"`
	UserBlockField    string          `json:"user_block_field"`
	UserBlockMessage  string          `json:"user_block_message"`
	PaymentURL        string          `json:"payment_portal_url"`
	Messages          denial.Messages `json:"messages"`
	MemberRole        string          `json:"member_role"`
	RateLimit         int             `json:"rate_limit"`
	RateWindowSeconds int             `json:"rate_window_seconds"`
}

// View returns the secret-free projection.
func (settings Settings) View() View {
	return View{
		GatewayURL:        settings.GatewayURL,
		TimeoutSeconds:    settings.TimeoutSeconds,
		HMACSecretSet:     settings.HMACSecret != "",
		AssetMap:          settings.AssetMap,
		DryRun:            settings.DryRun,
		UserBlockField:    settings.UserBlockField,
		UserBlockMessage:  settings.UserBlockMessage,
		PaymentURL:        settings.PaymentURL,
		Messages:          settings.Messages,
		MemberRole:        settings.MemberRole,
		RateLimit:         settings.RateLimit,
		RateWindowSeconds: settings.RateWindowSeconds,
	}
}

// Update is the PUT body. A nil HMACSecret keeps the stored secret; "" clears it.
type Update struct {
	View
	HMACSecret *string `json:"hmac_secret"`
}

// Apply produces the new settings from current and the update.
func (update Update) Apply(current Settings) Settings {
	next := Settings{
		GatewayURL:        update.GatewayURL,
		TimeoutSeconds:    update.TimeoutSeconds,
		HMACSecret:        current.HMACSecret,
		AssetMap:          update.AssetMap,
		DryRun:            update.DryRun,
		UserBlockField:    update.UserBlockField,
		UserBlockMessage:  update.UserBlockMessage,
		PaymentURL:        update.PaymentURL,
		Messages:          update.Messages,
		MemberRole:        update.MemberRole,
		RateLimit:         update.RateLimit,
		RateWindowSeconds: update.RateWindowSeconds,
	}
	if update.HMACSecret != nil {
		next.HMACSecret = *update.HMACSecret
	}
	return next
}

// # Validation

// Validate checks the settings before they are stored.
func (settings Settings) Validate() error {
	validator := &validate.Validator{}

	validator.
		Custom("gateway_url", settings.GatewayURL != "" && !isHTTPURL(settings.GatewayURL), "Must be an http or https URL").
		Custom("payment_portal_url", settings.PaymentURL != "" && !isHTTPURL(settings.PaymentURL), "Must be an http or https URL").
		Range("timeout_seconds", settings.TimeoutSeconds, 1, int(constants.MaxGatewayTimeout/time.Second)).
		Custom("rate_limit", settings.RateLimit < 0, "Must not be negative").
		Custom("rate_window_seconds", settings.RateLimit > 0 && settings.RateWindowSeconds < 1, "Must be at least 1 when rate_limit is set")

	if settings.UserBlockField != "" {
		validator.Identifier("user_block_field", settings.UserBlockField)
	}

	registry, err := asset.Parse(settings.AssetMap)
	if err != nil {
		validator.Custom("asset_map", true, err.Error())
	}
	for _, mapped := range registry.List("") {
		validator.Identifier("asset_map."+mapped.ID, mapped.ID)
	}

	return validator.Err()
}

func isHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	return err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// # Bootstrap

/*
Defaults builds settings from the env bootstrap block.

Description: The asset map is read from AssetMapFile when set. A missing file
is an error.
*/
func Defaults(access config.Access) (Settings, error) {
	defaults := Settings{
		GatewayURL:        access.GatewayURL,
		TimeoutSeconds:    access.TimeoutSeconds,
		HMACSecret:        access.HMACSecret,
		DryRun:            access.DryRun,
		PaymentURL:        access.PaymentURL,
		MemberRole:        access.MemberRole,
		RateLimit:         access.RateLimit,
		RateWindowSeconds: int(access.RateWindow / time.Second),
	}

	if access.AssetMapFile != "" {
		content, err := os.ReadFile(access.AssetMapFile)
		if err != nil {
			return Settings{}, fmt.Errorf("settings_read_asset_map_failed: %w", err)
		}
		defaults.AssetMap = string(content)
	}

	return defaults, nil
}
