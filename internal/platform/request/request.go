// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil reads the inputs of the access endpoints: JSON bodies,
chi path parameters and the authenticated actor.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/toolauth/internal/platform/apperr"
	"github.com/taibuivan/toolauth/internal/platform/ctxutil"
	"github.com/taibuivan/toolauth/internal/platform/sec"
	"github.com/taibuivan/toolauth/internal/platform/validate"
)

/*
DecodeJSON decodes a proxy or settings body into target.

Parameters:
  - request: *http.Request
  - target: any (pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON when the body is not valid JSON
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param returns a path parameter such as the asset identifier.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
RequiredClaims returns the actor of an access request.

Returns:
  - *sec.AuthClaims: The actor's token claims
  - error: apperr.Unauthorized when no token was verified upstream
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}
