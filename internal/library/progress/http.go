// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/stargazer/internal/platform/constants"
	requestutil "github.com/taibuivan/stargazer/internal/platform/request"
	"github.com/taibuivan/stargazer/internal/platform/respond"
	"github.com/taibuivan/stargazer/internal/platform/validate"
	"github.com/taibuivan/stargazer/pkg/convert"
)

// Handler implements the HTTP layer of the reader page.
type Handler struct {
	reader *Reader
}

// NewHandler constructs a new progress [Handler].
func NewHandler(reader *Reader) *Handler {
	return &Handler{reader: reader}
}

// RegisterRoutes attaches the reader endpoint to router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/stories/{storyID}/read", handler.read)
}

/*
GET /api/v1/stories/{storyID}/read.

Request:
  - chapter: int (1-based, optional; absent means the default view)
  - X-Device-ID header: scopes the stored position (optional)

Response:
  - 200: Reading
  - 400: chapter is not a number
  - 404: unknown story or chapter out of range
*/
func (handler *Handler) read(writer http.ResponseWriter, request *http.Request) {
	storyID, err := requestutil.ID(request, "storyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var chapterNumber *int
	if urlQuery := request.URL.Query(); urlQuery.Has("chapter") {
		number, ok := convert.ToInt(urlQuery.Get("chapter"))
		if !ok {
			respond.Error(writer, request, validate.RequiredError("chapter", "Must be a chapter number"))
			return
		}
		chapterNumber = &number
	}

	deviceID := request.Header.Get(constants.HeaderXDeviceID)
	reading, err := handler.reader.Open(request.Context(), deviceID, storyID, chapterNumber)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reading)
}
