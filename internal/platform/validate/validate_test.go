// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/toolauth/internal/platform/apperr"
	"github.com/taibuivan/toolauth/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "asset_identifier", "frontdoor", false},
		{"empty_string", "asset_identifier", "", true},
		{"whitespace_only", "asset_identifier", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Required(tt.field, tt.value).Err()

			if tt.hasError {
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

/*
TestValidator_MaxLen counts characters, not bytes.
*/
func TestValidator_MaxLen(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"under", "kiosk", true},
		{"at_limit", strings.Repeat("a", 8), true},
		{"over", strings.Repeat("a", 9), false},
		{"multibyte_at_limit", strings.Repeat("é", 8), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.MaxLen("source", tt.value, 8).Err()
			assert.Equal(t, tt.isValid, err == nil)
		})
	}
}

/*
TestValidator_OneOf accepts only the listed method tags.
*/
func TestValidator_OneOf(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"website", "website", true},
		{"qr", "qr", true},
		{"unknown", "nfc", false},
		{"case_sensitive", "QR", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.OneOf("method", tt.value, "website", "qr", "proxy").Err()
			assert.Equal(t, tt.isValid, err == nil)
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("asset_identifier", "lathe").
		Identifier("asset_identifier", "lathe").
		MaxLen("asset_identifier", "lathe", 128).
		Range("timeout_seconds", 5, 1, 30).
		Err()

	assert.NoError(t, err)
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("asset_identifier", "").                   // Fails
		Range("timeout_seconds", 0, 1, 30).                 // Fails
		Custom("rate_limit", true, "Must not be negative"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

/*
TestValidator_Identifier checks the asset identifier rule.
*/
func TestValidator_Identifier(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"simple", "lathe", true},
		{"mixed_case_and_digits", "Laser_Cutter-2", true},
		{"empty", "", false},
		{"space", "front door", false},
		{"slash", "front/door", false},
		{"dot", "door.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Identifier("asset_identifier", tt.value).Err()
			assert.Equal(t, tt.isValid, err == nil)
		})
	}
}
