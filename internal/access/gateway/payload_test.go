// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/toolauth/internal/access/gateway"
)

/*
TestBuild_SignedFrontDoor signs the exact bytes that are sent.
*/
func TestBuild_SignedFrontDoor(t *testing.T) {
	envelope, err := gateway.Build("front_reader", "CARD123", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, `{"reader_name":"front_reader","card_id":"CARD123"}`, string(envelope.Body))

	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write([]byte(`{"reader_name":"front_reader","card_id":"CARD123"}`))
	assert.Equal(t, "sha256="+hex.EncodeToString(mac.Sum(nil)), envelope.Signature)

	headers := envelope.Headers()
	assert.Equal(t, envelope.Signature, headers["X-Signature"])
	assert.Equal(t, "application/json", headers["Content-Type"])
}

/*
TestBuild_Unsigned omits the signature header without a secret.
*/
func TestBuild_Unsigned(t *testing.T) {
	envelope, err := gateway.Build("lathereader", "", "")
	require.NoError(t, err)

	assert.Equal(t, `{"reader_name":"lathereader","card_id":""}`, string(envelope.Body))
	assert.Empty(t, envelope.Signature)
	assert.NotContains(t, envelope.Headers(), "X-Signature")
}

/*
TestSign is deterministic and sensitive to every byte.
*/
func TestSign(t *testing.T) {
	body := []byte(`{"reader_name":"front_reader","card_id":"CARD123"}`)
	first := gateway.Sign("s3cret", body)

	assert.Equal(t, first, gateway.Sign("s3cret", body))
	assert.Regexp(t, `^sha256=[0-9a-f]{64}$`, first)

	changed := []byte(`{"reader_name":"front_reader","card_id":"CARD124"}`)
	assert.NotEqual(t, first, gateway.Sign("s3cret", changed))
	assert.NotEqual(t, first, gateway.Sign("s3cret2", body))

	assert.True(t, gateway.Verify("s3cret", body, first))
	assert.False(t, gateway.Verify("s3cret", changed, first))
}
