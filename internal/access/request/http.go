// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package request

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/toolauth/internal/platform/apperr"
	"github.com/taibuivan/toolauth/internal/platform/constants"
	"github.com/taibuivan/toolauth/internal/platform/middleware"
	requestutil "github.com/taibuivan/toolauth/internal/platform/request"
	"github.com/taibuivan/toolauth/internal/platform/respond"
	"github.com/taibuivan/toolauth/internal/platform/sec"
	"github.com/taibuivan/toolauth/internal/platform/validate"
)

// # Handler Implementation

// Handler implements the HTTP layer of the access flow.
type Handler struct {
	service *Service
}

// NewHandler constructs a new request [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the access endpoints.
//
// Every route expects an authenticated actor; the router is mounted behind
// [middleware.RequireAuth].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Members
	router.Get("/assets", handler.listAssets)
	router.Post("/assets/{assetID}/request", handler.requestAsset)
	router.Post("/proxy", handler.proxy)

	// ## Administrative
	router.With(middleware.RequireRole(sec.RoleAdmin)).Get("/gateway/health", handler.gatewayHealth)

	return router
}

// ProxyRequest is the body of the proxy endpoint.
type ProxyRequest struct {
	AssetIdentifier string `json:"asset_identifier"`
	Method          string `json:"method"`
	Source          string `json:"source"`
}

// # Access Endpoints

/*
GET /api/v1/access/assets.

Request:
  - category: string (optional filter)

Response:
  - 200: []asset.Asset
*/
func (handler *Handler) listAssets(writer http.ResponseWriter, request *http.Request) {
	assets, err := handler.service.ListAssets(request.Context(), request.URL.Query().Get("category"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, assets)
}

/*
POST /api/v1/access/assets/{assetID}/request.

Description: Sends an access request for one asset. Posting again is the
"resend" action.

Request:
  - assetID: string (letters, digits, '_' or '-', at most 128 characters)
  - method: string (website, qr or proxy; default website)

Response:
  - 200: Result (allowed or denied)
  - 400: VALIDATION_ERROR: Invalid asset identifier or method
  - 403/422/429/502/503: Result (blocked, no_credential, rate_limited, error, not_configured)
*/
func (handler *Handler) requestAsset(writer http.ResponseWriter, request *http.Request) {
	method := request.URL.Query().Get("method")
	if method == "" {
		method = constants.MethodWebsite
	}

	validator := &validate.Validator{}
	if err := validator.OneOf("method", method, constants.Methods...).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.perform(writer, request, requestutil.Param(request, "assetID"), method)
}

/*
POST /api/v1/access/proxy.

Description: Machine-facing variant used by kiosks and QR landing pages.

Request (Body):
  - asset_identifier: string (required)
  - method: string (website, qr or proxy; default proxy)
  - source: string (overrides method as the logged source, at most 64 characters)

Response:
  - Same as the asset request endpoint
*/
func (handler *Handler) proxy(writer http.ResponseWriter, request *http.Request) {
	var body ProxyRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.
		Required("asset_identifier", body.AssetIdentifier).
		MaxLen("source", body.Source, constants.MaxSourceLength)
	if body.Method != "" {
		validator.OneOf("method", body.Method, constants.Methods...)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	source := body.Source
	if source == "" {
		source = body.Method
	}
	if source == "" {
		source = constants.MethodProxy
	}

	handler.perform(writer, request, body.AssetIdentifier, source)
}

func (handler *Handler) perform(writer http.ResponseWriter, request *http.Request, assetID, source string) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.
		Identifier("asset_identifier", assetID).
		MaxLen("asset_identifier", assetID, constants.MaxAssetIDLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, apperr.ValidationError(MessageInvalidAsset, apperr.As(err).Details...))
		return
	}

	result, err := handler.service.Perform(request.Context(), Actor{UserID: claims.UserID, Email: claims.Email}, Input{AssetID: assetID, Source: source})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if result.Status == StatusRateLimited && result.RetryAfter > 0 {
		writer.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	}

	respond.Status(writer, result.Status.HTTPStatus(), result)
}

// # Administrative Endpoints

/*
GET /api/v1/access/gateway/health.

Response:
  - 200: gateway.Health (status ok, optional, failed, unreachable or not_configured)
*/
func (handler *Handler) gatewayHealth(writer http.ResponseWriter, request *http.Request) {
	health, err := handler.service.GatewayHealth(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, health)
}
