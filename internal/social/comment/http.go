// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stargazer/internal/platform/middleware"
	requestutil "github.com/taibuivan/stargazer/internal/platform/request"
	"github.com/taibuivan/stargazer/internal/platform/respond"
)

// Handler implements the HTTP layer for comments.
type Handler struct {
	service *Service
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the comment endpoints to router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/stories/{storyID}/comments", handler.list)
	router.With(middleware.RequireAuth).Post("/stories/{storyID}/comments", handler.add)
}

type addRequest struct {
	Content string `json:"content"`
}

// GET /api/v1/stories/{storyID}/comments.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	storyID, err := requestutil.ID(request, "storyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comments, err := handler.service.List(request.Context(), storyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comments)
}

/*
POST /api/v1/stories/{storyID}/comments.

Request:
  - content: string (required, max 5000)

Response:
  - 201: AddResult (the new comment and the whole feed)
*/
func (handler *Handler) add(writer http.ResponseWriter, request *http.Request) {
	storyID, err := requestutil.ID(request, "storyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body addRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Add(request.Context(), requestutil.Identity(request), storyID, body.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, result)
}
