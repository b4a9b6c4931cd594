// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stargazer/internal/api"
	"github.com/taibuivan/stargazer/internal/library/progress"
	"github.com/taibuivan/stargazer/internal/platform/config"
	"github.com/taibuivan/stargazer/internal/platform/constants"
	"github.com/taibuivan/stargazer/internal/platform/sec"
	"github.com/taibuivan/stargazer/internal/platform/sqlite/sqlitetest"
	"github.com/taibuivan/stargazer/pkg/uuid"
)

type testClient struct {
	t       *testing.T
	handler http.Handler
	tokens  *sec.TokenService
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKeys(key, nil, constants.AuthIssuer)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db := sqlitetest.New(t)
	services := api.NewServices(api.SQLiteStores(db), nil, progress.NewMemoryStorage())
	cfg := &config.Config{ServerPort: "0", Environment: "test"}

	liveness, readiness := api.NewHealthHandlers([]api.Check{{Name: "sqlite", Ping: db.PingContext}}, sqlitetest.Logger())
	server := api.NewServer(ctx, cfg, sqlitetest.Logger(), tokens, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Domains:   services.Routes(),
	})

	return &testClient{t: t, handler: server.Handler(), tokens: tokens}
}

func (c *testClient) token(userID, username string) string {
	token, err := c.tokens.GenerateAccessToken(userID, username, time.Hour)
	require.NoError(c.t, err)
	return token
}

// do sends a request and decodes the "data" member of the envelope into out.
func (c *testClient) do(method, path, token string, body any, out any) int {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}

	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set(constants.HeaderXDeviceID, "device-1")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	c.handler.ServeHTTP(recorder, request)

	if out != nil && recorder.Code < 300 {
		envelope := struct {
			Data json.RawMessage `json:"data"`
		}{}
		require.NoError(c.t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		require.NoError(c.t, json.Unmarshal(envelope.Data, out))
	}
	return recorder.Code
}

type storyBody struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Chapters []struct {
		Order int `json:"order"`
	} `json:"chapters"`
}

/*
TestServer_ReadingFlow drives one author and one reader through the API.
*/
func TestServer_ReadingFlow(t *testing.T) {
	client := newTestClient(t)
	author := client.token(uuid.New(), "nova")
	reader := client.token(uuid.New(), "orion")

	var created storyBody
	require.Equal(t, http.StatusCreated, client.do(http.MethodPost, "/api/v1/stories", author,
		map[string]any{"title": "Starfall", "genres": []string{"Fantasy"}}, &created))

	for _, title := range []string{"Prologue", "Descent"} {
		require.Equal(t, http.StatusCreated, client.do(http.MethodPost, "/api/v1/stories/"+created.ID+"/chapters", author,
			map[string]any{"title": title, "content": title + " text"}, nil))
	}

	// Only the owner may edit.
	assert.Equal(t, http.StatusForbidden, client.do(http.MethodPatch, "/api/v1/stories/"+created.ID, reader,
		map[string]any{"title": "Hijacked"}, nil))
	assert.Equal(t, http.StatusUnauthorized, client.do(http.MethodPost, "/api/v1/stories", "",
		map[string]any{"title": "Nobody"}, nil))

	var listed []storyBody
	require.Equal(t, http.StatusOK, client.do(http.MethodGet, "/api/v1/stories?genres=Fantasy&q=star", "", nil, &listed))
	require.Len(t, listed, 1)
	assert.Len(t, listed[0].Chapters, 2)

	var aggregate struct {
		Average float64 `json:"average"`
		Count   int     `json:"count"`
	}
	require.Equal(t, http.StatusOK, client.do(http.MethodPut, "/api/v1/stories/"+created.ID+"/rating", reader,
		map[string]int{"value": 4}, &aggregate))
	assert.Equal(t, 1, aggregate.Count)
	assert.InDelta(t, 4.0, aggregate.Average, 0.001)
	assert.Equal(t, http.StatusBadRequest, client.do(http.MethodPut, "/api/v1/stories/"+created.ID+"/rating", reader,
		map[string]int{"value": 6}, nil))

	var bookmark struct {
		Bookmarked bool `json:"bookmarked"`
	}
	require.Equal(t, http.StatusOK, client.do(http.MethodPost, "/api/v1/stories/"+created.ID+"/bookmark", reader, nil, &bookmark))
	assert.True(t, bookmark.Bookmarked)

	var bookmarked []storyBody
	require.Equal(t, http.StatusOK, client.do(http.MethodGet, "/api/v1/me/bookmarks", reader, nil, &bookmarked))
	require.Len(t, bookmarked, 1)
	assert.Equal(t, "Starfall", bookmarked[0].Title)

	var feed struct {
		Feed []struct {
			Content string `json:"content"`
		} `json:"feed"`
	}
	require.Equal(t, http.StatusCreated, client.do(http.MethodPost, "/api/v1/stories/"+created.ID+"/comments", reader,
		map[string]string{"content": "  Loved it  "}, &feed))
	require.Len(t, feed.Feed, 1)
	assert.Equal(t, "Loved it", feed.Feed[0].Content)

	var reading progress.Reading
	require.Equal(t, http.StatusOK, client.do(http.MethodGet, "/api/v1/stories/"+created.ID+"/read?chapter=2", "", nil, &reading))
	require.Equal(t, http.StatusOK, client.do(http.MethodGet, "/api/v1/stories/"+created.ID+"/read", "", nil, &reading))
	assert.True(t, reading.View.ShowResume)
	assert.Equal(t, "Prologue", reading.Chapter.Title)
}

/*
TestServer_Errors checks the error envelope for unknown resources.
*/
func TestServer_Errors(t *testing.T) {
	client := newTestClient(t)

	assert.Equal(t, http.StatusNotFound, client.do(http.MethodGet, "/api/v1/stories/"+uuid.New(), "", nil, nil))
	assert.Equal(t, http.StatusNotFound, client.do(http.MethodGet, "/api/v1/stories/not-a-uuid", "", nil, nil))
	assert.Equal(t, http.StatusNotFound, client.do(http.MethodGet, "/api/v1/authors/ghost", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, client.do(http.MethodGet, "/api/v1/me/bookmarks", "", nil, nil))
}

/*
TestHealth covers liveness and a failing readiness dependency.
*/
func TestHealth(t *testing.T) {
	liveness, readiness := api.NewHealthHandlers([]api.Check{
		{Name: "postgres", Ping: func(context.Context) error { return nil }},
		{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }},
		{Name: "disabled"},
	}, sqlitetest.Logger())

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var body struct {
		Data struct {
			Status string `json:"status"`
			Checks []struct {
				Name string `json:"name"`
				OK   bool   `json:"ok"`
			} `json:"checks"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Data.Status)
	assert.Len(t, body.Data.Checks, 2)
}
