// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stargazer/internal/platform/middleware"
	requestutil "github.com/taibuivan/stargazer/internal/platform/request"
	"github.com/taibuivan/stargazer/internal/platform/respond"
	"github.com/taibuivan/stargazer/pkg/pagination"
	"github.com/taibuivan/stargazer/pkg/query"
)

// # Handler Implementation

// Handler implements the HTTP layer for catalog discovery and authoring.
type Handler struct {
	service *Service
}

// NewHandler constructs a new story [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the catalog endpoints to router.
//
// # Routing Strategy
//
//   - Discovery (Public): listing, story detail, author works, genres.
//   - Authoring (Authenticated): story and chapter mutations, own works.
func (handler *Handler) RegisterRoutes(router chi.Router) {

	// ## Public Discovery Endpoints
	router.Get("/stories", handler.listStories)
	router.Get("/stories/{storyID}", handler.getStory)
	router.Get("/authors/{username}/stories", handler.listByUsername)
	router.Get("/genres", handler.listGenres)

	// ## Authoring
	router.Group(func(author chi.Router) {
		author.Use(middleware.RequireAuth)

		author.Get("/me/stories", handler.listMine)
		author.Post("/stories", handler.createStory)
		author.Patch("/stories/{storyID}", handler.updateStory)
		author.Delete("/stories/{storyID}", handler.deleteStory)

		author.Post("/stories/{storyID}/chapters", handler.addChapter)
		author.Patch("/chapters/{chapterID}", handler.updateChapter)
	})
}

// # Discovery Endpoints

/*
GET /api/v1/stories.

Request:
  - limit: int (default 20, max 100)
  - genres: string (comma separated, any-of)
  - q: string (title or description substring)

Response:
  - 200: []Story (chapters without content)
*/
func (handler *Handler) listStories(writer http.ResponseWriter, request *http.Request) {
	urlQuery := request.URL.Query()

	filter := Filter{
		Limit:  pagination.LimitFromRequest(request),
		Genres: query.StringSlice(urlQuery.Get("genres")),
		Search: urlQuery.Get("q"),
	}

	stories, err := handler.service.ListStories(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, stories, pagination.NewMeta(filter.Limit, len(stories)))
}

// GET /api/v1/stories/{storyID}.
func (handler *Handler) getStory(writer http.ResponseWriter, request *http.Request) {
	storyID, err := requestutil.ID(request, "storyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	story, err := handler.service.GetStory(request.Context(), storyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, story)
}

// GET /api/v1/authors/{username}/stories.
func (handler *Handler) listByUsername(writer http.ResponseWriter, request *http.Request) {
	stories, err := handler.service.ListStoriesByUsername(request.Context(), requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stories)
}

// GET /api/v1/genres.
func (handler *Handler) listGenres(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, GenreCategories())
}

// # Authoring Endpoints

// GET /api/v1/me/stories.
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stories, err := handler.service.ListStoriesByOwner(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stories)
}

/*
POST /api/v1/stories.

Request:
  - title: string (required, max 200)
  - description: string (max 10000)
  - genres: []string
  - tags: []string

Response:
  - 201: Story
*/
func (handler *Handler) createStory(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	story, err := handler.service.CreateStory(request.Context(), requestutil.Identity(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, story)
}

// PATCH /api/v1/stories/{storyID}.
func (handler *Handler) updateStory(writer http.ResponseWriter, request *http.Request) {
	storyID, err := requestutil.ID(request, "storyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	story, err := handler.service.UpdateStory(request.Context(), requestutil.Identity(request), storyID, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, story)
}

// DELETE /api/v1/stories/{storyID}.
func (handler *Handler) deleteStory(writer http.ResponseWriter, request *http.Request) {
	storyID, err := requestutil.ID(request, "storyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteStory(request.Context(), requestutil.Identity(request), storyID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
POST /api/v1/stories/{storyID}/chapters.

Request:
  - title: string (required)
  - content: string
  - order: int (optional, 0 appends)
  - published: bool

Response:
  - 201: Chapter
  - 409: an explicit order is already taken
*/
func (handler *Handler) addChapter(writer http.ResponseWriter, request *http.Request) {
	storyID, err := requestutil.ID(request, "storyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input ChapterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter, err := handler.service.AddChapter(request.Context(), requestutil.Identity(request), storyID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, chapter)
}

// PATCH /api/v1/chapters/{chapterID}.
func (handler *Handler) updateChapter(writer http.ResponseWriter, request *http.Request) {
	chapterID, err := requestutil.ID(request, "chapterID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch ChapterPatch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter, err := handler.service.UpdateChapter(request.Context(), requestutil.Identity(request), chapterID, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, chapter)
}
