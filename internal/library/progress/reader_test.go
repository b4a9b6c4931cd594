// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stargazer/internal/core/story"
	"github.com/taibuivan/stargazer/internal/library/progress"
	"github.com/taibuivan/stargazer/internal/platform/apperr"
	"github.com/taibuivan/stargazer/internal/platform/constants"
	"github.com/taibuivan/stargazer/pkg/pointer"
)

type catalog map[string]*story.Story

func (c catalog) GetStory(_ context.Context, id string) (*story.Story, error) {
	found, ok := c[id]
	if !ok {
		return nil, apperr.NotFound("Story")
	}
	return found, nil
}

func threeChapters() catalog {
	return catalog{storyID: {
		ID:    storyID,
		Title: "The Long Road",
		Chapters: []*story.Chapter{
			{ID: "c1", Title: "One", Content: "first", Order: 1},
			{ID: "c2", Title: "Two", Content: "second", Order: 2},
			{ID: "c3", Title: "Three", Content: "third", Order: 3},
		},
	}}
}

/*
TestReader_Open covers chapter resolution, persistence and the outline.
*/
func TestReader_Open(t *testing.T) {
	ctx := context.Background()
	storage := progress.NewMemoryStorage()
	reader := progress.NewReader(threeChapters(), storage)

	reading, err := reader.Open(ctx, "device-1", storyID, nil)
	require.NoError(t, err)
	assert.Equal(t, "first", reading.Chapter.Content)
	assert.False(t, reading.View.ShowResume)
	for _, chapter := range reading.Story.Chapters {
		assert.Empty(t, chapter.Content)
	}

	reading, err = reader.Open(ctx, "device-1", storyID, pointer.To(3))
	require.NoError(t, err)
	assert.Equal(t, "third", reading.Chapter.Content)
	assert.Equal(t, 2, reading.View.DisplayIndex)

	reading, err = reader.Open(ctx, "device-1", storyID, nil)
	require.NoError(t, err)
	assert.Equal(t, "first", reading.Chapter.Content)
	assert.Equal(t, 2, reading.View.ActiveIndex)
	assert.True(t, reading.View.ShowResume)

	// The catalog copy keeps its contents.
	assert.Equal(t, "second", threeChapters()[storyID].Chapters[1].Content)
}

/*
TestReader_Open_OutOfRange checks that a bad chapter number fails without
touching the stored position.
*/
func TestReader_Open_OutOfRange(t *testing.T) {
	ctx := context.Background()
	storage := progress.NewMemoryStorage()
	reader := progress.NewReader(threeChapters(), storage)

	_, err := reader.Open(ctx, "device-1", storyID, pointer.To(2))
	require.NoError(t, err)

	for _, number := range []int{0, 4, -1} {
		_, err := reader.Open(ctx, "device-1", storyID, pointer.To(number))
		assert.True(t, apperr.IsNotFound(err), "chapter %d", number)
	}

	stored := progress.NewTracker(storage.ForDevice("device-1")).Load(ctx, storyID)
	assert.Equal(t, progress.At(1), stored)

	_, err = reader.Open(ctx, "device-1", "0190f3c4-1111-7000-8000-00000000ffff", nil)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestReader_Open_NoChapters checks that an empty story renders without a chapter.
*/
func TestReader_Open_NoChapters(t *testing.T) {
	reader := progress.NewReader(catalog{storyID: {ID: storyID, Chapters: []*story.Chapter{}}}, progress.NewMemoryStorage())

	reading, err := reader.Open(context.Background(), "device-1", storyID, nil)
	require.NoError(t, err)
	assert.Nil(t, reading.Chapter)
	assert.Equal(t, progress.NoPosition(), reading.View.Stored)
}

/*
TestHandler_Read exercises the endpoint through a chi router.
*/
func TestHandler_Read(t *testing.T) {
	router := chi.NewRouter()
	progress.NewHandler(progress.NewReader(threeChapters(), progress.NewMemoryStorage())).RegisterRoutes(router)

	get := func(query string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodGet, "/stories/"+storyID+"/read"+query, nil)
		request.Header.Set(constants.HeaderXDeviceID, "device-1")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	tests := []struct {
		query string
		code  int
	}{
		{"?chapter=2", http.StatusOK},
		{"", http.StatusOK},
		{"?chapter=abc", http.StatusBadRequest},
		{"?chapter=", http.StatusBadRequest},
		{"?chapter=9", http.StatusNotFound},
		{"?chapter=0", http.StatusNotFound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, get(tt.query).Code, "query %q", tt.query)
	}

	var failure struct {
		Code    string              `json:"code"`
		Details []apperr.FieldError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(get("?chapter=abc").Body.Bytes(), &failure))
	assert.Equal(t, apperr.CodeValidation, failure.Code)
	require.Len(t, failure.Details, 1)
	assert.Equal(t, "chapter", failure.Details[0].Field)

	var body struct {
		Data progress.Reading `json:"data"`
	}
	recorder := get("")
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.True(t, body.Data.View.ShowResume)
	assert.Equal(t, 1, body.Data.View.ActiveIndex)
}
