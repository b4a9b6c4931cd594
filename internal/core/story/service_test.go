// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stargazer/internal/core/story"
	"github.com/taibuivan/stargazer/internal/platform/apperr"
	"github.com/taibuivan/stargazer/internal/platform/identity"
	"github.com/taibuivan/stargazer/internal/platform/sqlite/sqlitetest"
	"github.com/taibuivan/stargazer/pkg/pointer"
	"github.com/taibuivan/stargazer/pkg/uuid"
)

func newService(t *testing.T) (*story.Service, *sql.DB) {
	t.Helper()
	db := sqlitetest.New(t)
	return story.NewService(story.NewSQLiteStoryRepository(db), story.NewSQLiteChapterRepository(db)), db
}

func mustCreate(t *testing.T, service *story.Service, who identity.Identity, input story.CreateInput) *story.Story {
	t.Helper()
	created, err := service.CreateStory(context.Background(), who, input)
	require.NoError(t, err)
	return created
}

func titles(stories []*story.Story) []string {
	result := make([]string, 0, len(stories))
	for _, s := range stories {
		result = append(result, s.Title)
	}
	return result
}

/*
TestListStories_NewestFirst checks ordering and limit clamping.
*/
func TestListStories_NewestFirst(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()
	alice := identity.User(uuid.New(), "alice")

	mustCreate(t, service, alice, story.CreateInput{Title: "First"})
	mustCreate(t, service, alice, story.CreateInput{Title: "Second"})
	mustCreate(t, service, alice, story.CreateInput{Title: "Third"})

	stories, err := service.ListStories(ctx, story.Filter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Third", "Second"}, titles(stories))

	stories, err = service.ListStories(ctx, story.Filter{Limit: 0})
	require.NoError(t, err)
	assert.Len(t, stories, 3)

	stories, err = service.ListStories(ctx, story.Filter{Limit: 10_000})
	require.NoError(t, err)
	assert.Len(t, stories, 3)
}

/*
TestListStories_Filters covers genre overlap, literal search and their combination.
*/
func TestListStories_Filters(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()
	alice := identity.User(uuid.New(), "alice")

	mustCreate(t, service, alice, story.CreateInput{Title: "100% Pure", Genres: []string{"Romance", "Fantasy"}})
	mustCreate(t, service, alice, story.CreateInput{Title: "Dragon_Tale", Description: "A quiet village", Genres: []string{"Horror"}})
	mustCreate(t, service, alice, story.CreateInput{Title: "Plain", Description: "Nothing 100 here"})
	mustCreate(t, service, alice, story.CreateInput{Title: "Nebula's End", Genres: []string{"Sci-Fi", "Adventure"}})

	everything := []string{"Nebula's End", "Plain", "Dragon_Tale", "100% Pure"}

	tests := []struct {
		name   string
		filter story.Filter
		want   []string
	}{
		{"no_filter", story.Filter{}, everything},
		{"genre_any_of", story.Filter{Genres: []string{"Horror", "Romance"}}, []string{"Dragon_Tale", "100% Pure"}},
		{"genre_overlaps_one_of_several", story.Filter{Genres: []string{"Adventure"}}, []string{"Nebula's End"}},
		{"genre_without_overlap", story.Filter{Genres: []string{"Romance"}}, []string{"100% Pure"}},
		{"empty_genres", story.Filter{Genres: []string{}}, everything},
		{"blank_genres_ignored", story.Filter{Genres: []string{" ", ""}}, everything},
		{"unknown_genre", story.Filter{Genres: []string{"Western"}}, []string{}},
		{"percent_is_literal", story.Filter{Search: "%"}, []string{"100% Pure"}},
		{"underscore_is_literal", story.Filter{Search: "_"}, []string{"Dragon_Tale"}},
		{"case_insensitive", story.Filter{Search: "  dragon "}, []string{"Dragon_Tale"}},
		{"matches_description", story.Filter{Search: "village"}, []string{"Dragon_Tale"}},
		{"search_without_genres", story.Filter{Search: "100"}, []string{"Plain", "100% Pure"}},
		{"search_with_empty_genres", story.Filter{Genres: []string{}, Search: "100"}, []string{"Plain", "100% Pure"}},
		{"genre_and_search", story.Filter{Genres: []string{"Romance"}, Search: "100"}, []string{"100% Pure"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stories, err := service.ListStories(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(stories))
		})
	}
}

/*
TestListStories_EmptyGenresMatchAbsent returns the same rows for an empty genre
set as for no genre filter at all, whatever the search.
*/
func TestListStories_EmptyGenresMatchAbsent(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()
	alice := identity.User(uuid.New(), "alice")

	mustCreate(t, service, alice, story.CreateInput{Title: "Nebula's End", Genres: []string{"Sci-Fi", "Adventure"}})
	mustCreate(t, service, alice, story.CreateInput{Title: "Ending Soon", Description: "no genres"})
	mustCreate(t, service, alice, story.CreateInput{Title: "Other", Genres: []string{"Romance"}})

	for _, search := range []string{"", "end", "missing"} {
		t.Run("search="+search, func(t *testing.T) {
			absent, err := service.ListStories(ctx, story.Filter{Search: search})
			require.NoError(t, err)

			empty, err := service.ListStories(ctx, story.Filter{Genres: []string{}, Search: search})
			require.NoError(t, err)

			assert.Equal(t, titles(absent), titles(empty))
		})
	}
}

/*
TestChapters_OrderAndContent checks append numbering, sorting and content visibility.
*/
func TestChapters_OrderAndContent(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()
	alice := identity.User(uuid.New(), "alice")
	created := mustCreate(t, service, alice, story.CreateInput{Title: "Saga"})

	third, err := service.AddChapter(ctx, alice, created.ID, story.ChapterInput{Title: "Three", Content: "c3", Order: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, third.Order)

	_, err = service.AddChapter(ctx, alice, created.ID, story.ChapterInput{Title: "One", Content: "c1", Order: 1})
	require.NoError(t, err)

	appended, err := service.AddChapter(ctx, alice, created.ID, story.ChapterInput{Title: "Four", Content: "c4"})
	require.NoError(t, err)
	assert.Equal(t, 4, appended.Order)

	_, err = service.AddChapter(ctx, alice, created.ID, story.ChapterInput{Title: "Dup", Order: 3})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	detail, err := service.GetStory(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, detail.Chapters, 3)
	assert.Equal(t, []int{1, 3, 4}, []int{detail.Chapters[0].Order, detail.Chapters[1].Order, detail.Chapters[2].Order})
	assert.Equal(t, "c1", detail.Chapters[0].Content)

	listed, err := service.ListStories(ctx, story.Filter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Len(t, listed[0].Chapters, 3)
	assert.Equal(t, "One", listed[0].Chapters[0].Title)
	assert.Empty(t, listed[0].Chapters[0].Content)
}

/*
TestUpdateChapter_Patch applies partial fields and rejects a taken order.
*/
func TestUpdateChapter_Patch(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()
	alice := identity.User(uuid.New(), "alice")
	created := mustCreate(t, service, alice, story.CreateInput{Title: "Saga"})

	first, err := service.AddChapter(ctx, alice, created.ID, story.ChapterInput{Title: "One"})
	require.NoError(t, err)
	second, err := service.AddChapter(ctx, alice, created.ID, story.ChapterInput{Title: "Two"})
	require.NoError(t, err)

	updated, err := service.UpdateChapter(ctx, alice, first.ID, story.ChapterPatch{Published: pointer.To(true)})
	require.NoError(t, err)
	assert.True(t, updated.Published)
	assert.Equal(t, "One", updated.Title)

	_, err = service.UpdateChapter(ctx, alice, second.ID, story.ChapterPatch{Order: pointer.To(1)})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	_, err = service.UpdateChapter(ctx, alice, second.ID, story.ChapterPatch{Order: pointer.To(0)})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestMutations_OwnerGated ensures strangers and anonymous callers cannot change a story.
*/
func TestMutations_OwnerGated(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()
	alice := identity.User(uuid.New(), "alice")
	bob := identity.User(uuid.New(), "bob")
	created := mustCreate(t, service, alice, story.CreateInput{Title: "Mine"})

	tests := []struct {
		name string
		who  identity.Identity
		code string
	}{
		{"anonymous", identity.Anonymous(), apperr.CodeUnauthorized},
		{"stranger", bob, apperr.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.UpdateStory(ctx, tt.who, created.ID, story.Patch{Title: pointer.To("Hijacked")})
			assert.True(t, apperr.HasCode(err, tt.code))

			err = service.DeleteStory(ctx, tt.who, created.ID)
			assert.True(t, apperr.HasCode(err, tt.code))

			_, err = service.AddChapter(ctx, tt.who, created.ID, story.ChapterInput{Title: "Sneaky"})
			assert.True(t, apperr.HasCode(err, tt.code))
		})
	}

	unchanged, err := service.GetStory(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", unchanged.Title)
	assert.Empty(t, unchanged.Chapters)
}

/*
TestUpdateStory_Patch keeps absent fields and clears lists set to empty.
*/
func TestUpdateStory_Patch(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()
	alice := identity.User(uuid.New(), "alice")
	created := mustCreate(t, service, alice, story.CreateInput{Title: "Draft", Description: "keep", Genres: []string{"Horror"}})

	updated, err := service.UpdateStory(ctx, alice, created.ID, story.Patch{Title: pointer.To(" Final "), Genres: []string{}})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "keep", updated.Description)
	assert.Empty(t, updated.Genres)
	assert.Empty(t, updated.ContentWarnings)
}

/*
TestDeleteStory_Cascades verifies no dependent rows survive a delete.
*/
func TestDeleteStory_Cascades(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()
	alice := identity.User(uuid.New(), "alice")
	created := mustCreate(t, service, alice, story.CreateInput{Title: "Doomed"})

	_, err := service.AddChapter(ctx, alice, created.ID, story.ChapterInput{Title: "One"})
	require.NoError(t, err)

	now := "2026-01-01T00:00:00.000000000Z"
	_, err = db.Exec(`INSERT INTO comments (id, story_id, user_id, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New(), created.ID, alice.UserID(), "hi", now)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO bookmarks (id, user_id, story_id, created_at) VALUES (?, ?, ?, ?)`,
		uuid.New(), alice.UserID(), created.ID, now)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO ratings (id, user_id, story_id, rating, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New(), alice.UserID(), created.ID, 4, now, now)
	require.NoError(t, err)

	require.NoError(t, service.DeleteStory(ctx, alice, created.ID))

	for _, table := range []string{"stories", "chapters", "comments", "bookmarks", "ratings"} {
		assert.Zero(t, sqlitetest.Count(t, db, table, ""), table)
	}

	_, err = service.GetStory(ctx, created.ID)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestAuthorJoin attaches the owner's username when a profile exists.
*/
func TestAuthorJoin(t *testing.T) {
	service, db := newService(t)
	ctx := context.Background()
	alice := identity.User(uuid.New(), "")
	bob := identity.User(uuid.New(), "")

	mustCreate(t, service, alice, story.CreateInput{Title: "With author"})
	mustCreate(t, service, bob, story.CreateInput{Title: "Without author"})
	sqlitetest.InsertProfile(t, db, alice.UserID(), "alice")

	stories, err := service.ListStories(ctx, story.Filter{})
	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Nil(t, stories[0].Author)
	require.NotNil(t, stories[1].Author)
	assert.Equal(t, "alice", stories[1].Author.Username)

	byName, err := service.ListStoriesByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"With author"}, titles(byName))

	unknown, err := service.ListStoriesByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, unknown)
	assert.Empty(t, unknown)

	stats, err := service.CountWorks(ctx, alice.UserID())
	require.NoError(t, err)
	assert.Equal(t, story.Stats{Stories: 1, Chapters: 0}, stats)
}

/*
TestGetStory_NotFound covers unknown and malformed identifiers.
*/
func TestGetStory_NotFound(t *testing.T) {
	service, _ := newService(t)

	for _, id := range []string{uuid.New(), "not-a-uuid", ""} {
		_, err := service.GetStory(context.Background(), id)
		assert.True(t, apperr.IsNotFound(err), id)
	}
}

/*
TestListStories_StoreFailure returns an empty slice with STORE_FAILURE.
*/
func TestListStories_StoreFailure(t *testing.T) {
	service, db := newService(t)
	require.NoError(t, db.Close())

	stories, err := service.ListStories(context.Background(), story.Filter{})
	require.Error(t, err)
	assert.True(t, apperr.IsStoreFailure(err))
	assert.NotNil(t, stories)
	assert.Empty(t, stories)
}

// recordingRepo counts mutating calls; other methods are never reached.
type recordingRepo struct {
	story.StoryRepository
	creates int
}

func (repo *recordingRepo) Create(context.Context, *story.Story) error {
	repo.creates++
	return nil
}

/*
TestCreateStory_ValidationBeforeStore rejects bad input without touching the store.
*/
func TestCreateStory_ValidationBeforeStore(t *testing.T) {
	repo := &recordingRepo{}
	service := story.NewService(repo, nil)
	alice := identity.User(uuid.New(), "alice")

	tests := []struct {
		name  string
		who   identity.Identity
		input story.CreateInput
		code  string
	}{
		{"anonymous", identity.Anonymous(), story.CreateInput{Title: "x"}, apperr.CodeUnauthorized},
		{"blank_title", alice, story.CreateInput{Title: "   "}, apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateStory(context.Background(), tt.who, tt.input)
			assert.True(t, apperr.HasCode(err, tt.code))
		})
	}
	assert.Zero(t, repo.creates)

	created, err := service.CreateStory(context.Background(), alice, story.CreateInput{Title: "Ok", Genres: []string{"Gore", "Gore"}})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, []string{"Gore"}, created.Genres)
	assert.Equal(t, "alice", created.Author.Username)
}
