// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stargazer/internal/platform/middleware"
	requestutil "github.com/taibuivan/stargazer/internal/platform/request"
	"github.com/taibuivan/stargazer/internal/platform/respond"
)

// Handler implements the HTTP layer for profiles.
type Handler struct {
	service *Service
}

// NewHandler constructs a new profile [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the profile endpoints to router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/authors/{username}", handler.getProfile)

	router.Group(func(owner chi.Router) {
		owner.Use(middleware.RequireAuth)

		owner.Get("/me/profile", handler.getCurrent)
		owner.Put("/me/profile", handler.update)
	})
}

// GET /api/v1/authors/{username}.
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.service.GetProfile(request.Context(), requestutil.Identity(request), requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

// GET /api/v1/me/profile.
// The body is null until the caller saves a profile.
func (handler *Handler) getCurrent(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.service.GetCurrentProfile(request.Context(), requestutil.Identity(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

/*
PUT /api/v1/me/profile.

Request:
  - Patch (omitted fields are kept)

Response:
  - 200: Profile
  - 409: username taken
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.UpdateProfile(request.Context(), requestutil.Identity(request), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}
