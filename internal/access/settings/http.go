// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/toolauth/internal/platform/request"
	"github.com/taibuivan/toolauth/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the admin HTTP layer for access settings.
type Handler struct {
	service *Service
}

// NewHandler constructs a new settings [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the settings endpoints.
// Admin authorization is applied where the router is mounted.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.getSettings)
	router.Put("/", handler.putSettings)
	return router
}

/*
GET /api/v1/access/settings.

Response:
  - 200: View: Current settings without the HMAC secret
*/
func (handler *Handler) getSettings(writer http.ResponseWriter, request *http.Request) {
	current, err := handler.service.Current(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, current.View())
}

/*
PUT /api/v1/access/settings.

Description: Replaces the settings. Omit hmac_secret to keep the stored one,
send "" to clear it.

Request (Body):
  - Update JSON object

Response:
  - 201: View: First stored document (env defaults were in effect)
  - 200: View: Stored settings
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) putSettings(writer http.ResponseWriter, request *http.Request) {
	var update Update
	if err := requestutil.DecodeJSON(request, &update); err != nil {
		respond.Error(writer, request, err)
		return
	}

	stored, created, err := handler.service.Update(request.Context(), update)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, stored.View())
		return
	}
	respond.OK(writer, stored.View())
}
