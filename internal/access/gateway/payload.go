// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package gateway talks to the upstream access-control gateway.

# Wire Contract

	POST <gateway url>
	Content-Type: application/json
	X-Signature: sha256=<hex hmac>      (only when a secret is configured)

	{"reader_name":"front_reader","card_id":"CARD123"}

HTTP 201 means the card was accepted. Any other status is a denial, and no
response at all is an error. The signature covers the exact bytes of the body.

# Components

  - [Build] and [Sign]: canonical payload and HMAC header.
  - [Client]: one bounded POST per call, outcome classification, one log record.
  - [HealthChecker]: probes the gateway's /health endpoint.
*/
package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/taibuivan/toolauth/internal/platform/constants"
)

// # Payloads

// Payload is the authoritative request body. Field order is the wire order.
type Payload struct {
	ReaderName string `json:"reader_name"`
	CardID     string `json:"card_id"`
}

// Details is descriptive context kept for logs. It is never sent or signed.
type Details struct {
	UserID       string `json:"uid"`
	Email        string `json:"email"`
	AssetID      string `json:"asset_id"`
	PermissionID string `json:"permission_id"`
	Source       string `json:"source"`
}

// Envelope holds the encoded body and the signature computed over those same bytes.
type Envelope struct {
	Payload   Payload
	Body      []byte
	Signature string
}

/*
Build encodes the payload and signs it when a secret is set.

Description: An empty card id is encoded as-is; the gateway is expected to
reject it.

Parameters:
  - readerName: string (already normalized)
  - cardID: string
  - secret: string (empty disables signing)

Returns:
  - Envelope: body bytes plus optional signature header value
  - error: encoding failures
*/
func Build(readerName, cardID, secret string) (Envelope, error) {
	payload := Payload{ReaderName: readerName, CardID: cardID}

	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("gateway_payload_encode_failed: %w", err)
	}

	envelope := Envelope{Payload: payload, Body: body}
	if secret != "" {
		envelope.Signature = Sign(secret, body)
	}

	return envelope, nil
}

// Sign returns the X-Signature value for body: "sha256=" followed by the hex HMAC-SHA256.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return constants.SignaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches body under secret, in constant time.
func Verify(secret string, body []byte, signature string) bool {
	return hmac.Equal([]byte(Sign(secret, body)), []byte(signature))
}

// Headers returns the request headers for the envelope.
func (envelope Envelope) Headers() map[string]string {
	headers := map[string]string{constants.HeaderContentType: constants.MIMEApplicationJSON}
	if envelope.Signature != "" {
		headers[constants.SignatureHeader] = envelope.Signature
	}
	return headers
}
