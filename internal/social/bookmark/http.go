// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bookmark

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stargazer/internal/platform/middleware"
	requestutil "github.com/taibuivan/stargazer/internal/platform/request"
	"github.com/taibuivan/stargazer/internal/platform/respond"
)

// Handler implements the HTTP layer for bookmarks.
type Handler struct {
	service *Service
}

// NewHandler constructs a new bookmark [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the bookmark endpoints to router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/stories/{storyID}/bookmark", handler.status)

	router.Group(func(reader chi.Router) {
		reader.Use(middleware.RequireAuth)

		reader.Post("/stories/{storyID}/bookmark", handler.toggle)
		reader.Get("/me/bookmarks", handler.listMine)
	})
}

type statusResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

// GET /api/v1/stories/{storyID}/bookmark.
func (handler *Handler) status(writer http.ResponseWriter, request *http.Request) {
	storyID, err := requestutil.ID(request, "storyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmarked, err := handler.service.IsBookmarked(request.Context(), requestutil.Identity(request), storyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, statusResponse{Bookmarked: bookmarked})
}

// POST /api/v1/stories/{storyID}/bookmark.
func (handler *Handler) toggle(writer http.ResponseWriter, request *http.Request) {
	storyID, err := requestutil.ID(request, "storyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmarked, err := handler.service.Toggle(request.Context(), requestutil.Identity(request), storyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, statusResponse{Bookmarked: bookmarked})
}

// GET /api/v1/me/bookmarks.
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	stories, err := handler.service.ListBookmarkedStories(request.Context(), requestutil.Identity(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stories)
}
