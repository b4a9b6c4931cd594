// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stargazer/internal/platform/middleware"
	requestutil "github.com/taibuivan/stargazer/internal/platform/request"
	"github.com/taibuivan/stargazer/internal/platform/respond"
)

// Handler implements the HTTP layer for ratings.
type Handler struct {
	service *Service
}

// NewHandler constructs a new rating [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the rating endpoints to router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/stories/{storyID}/rating", handler.getAggregate)
	router.Get("/stories/{storyID}/rating/mine", handler.getMine)
	router.With(middleware.RequireAuth).Put("/stories/{storyID}/rating", handler.rate)
}

type rateRequest struct {
	Value int `json:"value"`
}

type mineResponse struct {
	Rating *int `json:"rating"`
}

// GET /api/v1/stories/{storyID}/rating.
func (handler *Handler) getAggregate(writer http.ResponseWriter, request *http.Request) {
	storyID, err := requestutil.ID(request, "storyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	aggregate, err := handler.service.GetAggregate(request.Context(), storyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, aggregate)
}

// GET /api/v1/stories/{storyID}/rating/mine.
// Anonymous callers get {"rating": null}.
func (handler *Handler) getMine(writer http.ResponseWriter, request *http.Request) {
	storyID, err := requestutil.ID(request, "storyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	score, err := handler.service.GetMine(request.Context(), requestutil.Identity(request), storyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, mineResponse{Rating: score})
}

/*
PUT /api/v1/stories/{storyID}/rating.

Request:
  - value: int (1 to 5)

Response:
  - 200: Aggregate (fresh, after the write)
*/
func (handler *Handler) rate(writer http.ResponseWriter, request *http.Request) {
	storyID, err := requestutil.ID(request, "storyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body rateRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Rate(request.Context(), requestutil.Identity(request), storyID, body.Value); err != nil {
		respond.Error(writer, request, err)
		return
	}

	aggregate, err := handler.service.GetAggregate(request.Context(), storyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, aggregate)
}
