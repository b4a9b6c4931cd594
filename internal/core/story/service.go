// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/stargazer/internal/platform/apperr"
	"github.com/taibuivan/stargazer/internal/platform/ctxutil"
	"github.com/taibuivan/stargazer/internal/platform/identity"
	"github.com/taibuivan/stargazer/internal/platform/validate"
	"github.com/taibuivan/stargazer/pkg/pagination"
	"github.com/taibuivan/stargazer/pkg/slice"
	"github.com/taibuivan/stargazer/pkg/uuid"
)

// # Service Layer

// Service orchestrates the catalog: discovery queries and owner-gated mutations.
type Service struct {
	storyRepo   StoryRepository
	chapterRepo ChapterRepository
}

// NewService constructs a new [Service] with its required repositories.
func NewService(storyRepo StoryRepository, chapterRepo ChapterRepository) *Service {
	return &Service{
		storyRepo:   storyRepo,
		chapterRepo: chapterRepo,
	}
}

// # Catalog Lookups

/*
ListStories runs a discovery query.

Description: The filter is normalized first. The limit is clamped into
[1, pagination.MaxLimit] with zero meaning the default, genres are trimmed
and de-duplicated, and the search term is trimmed. Empty fields add no
predicate.

Returns:
  - []*Story: Newest first, chapters ascending by order. Never nil.
  - error: STORE_FAILURE when the store could not answer. The slice is
    empty in that case.
*/
func (service *Service) ListStories(context context.Context, filter Filter) ([]*Story, error) {
	filter.Limit = pagination.ClampLimit(filter.Limit)
	filter.Genres = NormalizeLabels(filter.Genres)
	filter.Search = strings.TrimSpace(filter.Search)

	stories, err := service.storyRepo.List(context, filter)
	if err != nil {
		return []*Story{}, err
	}
	return prepare(stories), nil
}

// GetStory returns one story with chapter content.
func (service *Service) GetStory(context context.Context, id string) (*Story, error) {
	if !validate.IsUUID(id) {
		return nil, apperr.NotFound("Story")
	}

	story, err := service.storyRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	return prepare([]*Story{story})[0], nil
}

// ListStoriesByUsername returns the works of the author with username.
// An unknown username yields an empty list.
func (service *Service) ListStoriesByUsername(context context.Context, username string) ([]*Story, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return []*Story{}, nil
	}

	stories, err := service.storyRepo.ListByUsername(context, username)
	if err != nil {
		return []*Story{}, err
	}
	return prepare(stories), nil
}

// ListStoriesByOwner returns every story owned by userID.
func (service *Service) ListStoriesByOwner(context context.Context, userID string) ([]*Story, error) {
	stories, err := service.storyRepo.ListByOwner(context, userID)
	if err != nil {
		return []*Story{}, err
	}
	return prepare(stories), nil
}

// ListStoriesByIDs returns the stories among ids that exist, newest first.
// Malformed ids are skipped.
func (service *Service) ListStoriesByIDs(context context.Context, ids []string) ([]*Story, error) {
	ids = slice.Filter(ids, validate.IsUUID)
	if len(ids) == 0 {
		return []*Story{}, nil
	}

	stories, err := service.storyRepo.ListByIDs(context, ids)
	if err != nil {
		return []*Story{}, err
	}
	return prepare(stories), nil
}

// CountWorks reports how many stories and chapters a user has written.
func (service *Service) CountWorks(context context.Context, userID string) (Stats, error) {
	return service.storyRepo.CountByOwner(context, userID)
}

// # Story Management

/*
CreateStory publishes a new story owned by the caller.

Description: Anonymous callers are rejected, then the input is validated.
Both happen before the store is touched.
*/
func (service *Service) CreateStory(context context.Context, who identity.Identity, input CreateInput) (*Story, error) {
	if who.IsAnonymous() {
		return nil, apperr.Unauthorized("Sign in to publish a story")
	}

	story := &Story{
		ID:          uuid.New(),
		UserID:      who.UserID(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Genres:      NormalizeLabels(input.Genres),
		Tags:        NormalizeLabels(input.Tags),
	}

	if err := validateStory(story); err != nil {
		return nil, err
	}

	if err := service.storyRepo.Create(context, story); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("story_created",
		slog.String("story_id", story.ID),
		slog.String("user_id", story.UserID),
	)

	if who.Username() != "" {
		story.Author = &Author{Username: who.Username()}
	}
	return prepare([]*Story{story})[0], nil
}

/*
UpdateStory applies a partial update to a story the caller owns.

Description: The current row is loaded to check ownership, the patch is
merged and validated, and only then is the row written.
*/
func (service *Service) UpdateStory(context context.Context, who identity.Identity, id string, patch Patch) (*Story, error) {
	if who.IsAnonymous() {
		return nil, apperr.Unauthorized("Sign in to edit a story")
	}
	if !validate.IsUUID(id) {
		return nil, apperr.NotFound("Story")
	}

	story, err := service.storyRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if !who.Owns(story.UserID) {
		return nil, apperr.Forbidden("Only the author can edit this story")
	}

	if patch.Title != nil {
		story.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		story.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Genres != nil {
		story.Genres = NormalizeLabels(patch.Genres)
	}
	if patch.Tags != nil {
		story.Tags = NormalizeLabels(patch.Tags)
	}

	if err := validateStory(story); err != nil {
		return nil, err
	}

	if err := service.storyRepo.Update(context, story); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("story_updated", slog.String("story_id", story.ID))
	return prepare([]*Story{story})[0], nil
}

// DeleteStory removes a story the caller owns, with its chapters, ratings,
// comments and bookmarks.
func (service *Service) DeleteStory(context context.Context, who identity.Identity, id string) error {
	if err := service.authorize(context, who, id); err != nil {
		return err
	}

	if err := service.storyRepo.Delete(context, id); err != nil {
		return err
	}

	ctxutil.GetLogger(context).Info("story_deleted", slog.String("story_id", id))
	return nil
}

// # Chapter Management

// AddChapter appends or inserts a chapter into a story the caller owns.
// A zero order appends after the current last chapter.
func (service *Service) AddChapter(context context.Context, who identity.Identity, storyID string, input ChapterInput) (*Chapter, error) {
	if who.IsAnonymous() {
		return nil, apperr.Unauthorized("Sign in to add a chapter")
	}

	chapter := &Chapter{
		ID:        uuid.New(),
		StoryID:   storyID,
		Title:     strings.TrimSpace(input.Title),
		Content:   input.Content,
		Order:     input.Order,
		Published: input.Published,
	}

	validator := &validate.Validator{}
	validateChapter(validator, chapter)
	validator.Custom(FieldOrder, chapter.Order < 0, "Order must be positive")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.authorize(context, who, storyID); err != nil {
		return nil, err
	}

	if err := service.chapterRepo.Create(context, chapter); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("chapter_added",
		slog.String("story_id", storyID),
		slog.String("chapter_id", chapter.ID),
		slog.Int("order", chapter.Order),
	)
	return chapter, nil
}

// UpdateChapter applies a partial update to a chapter of a story the caller owns.
func (service *Service) UpdateChapter(context context.Context, who identity.Identity, chapterID string, patch ChapterPatch) (*Chapter, error) {
	if who.IsAnonymous() {
		return nil, apperr.Unauthorized("Sign in to edit a chapter")
	}
	if !validate.IsUUID(chapterID) {
		return nil, apperr.NotFound("Chapter")
	}

	chapter, err := service.chapterRepo.FindByID(context, chapterID)
	if err != nil {
		return nil, err
	}
	if err := service.authorize(context, who, chapter.StoryID); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		chapter.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		chapter.Content = *patch.Content
	}
	if patch.Order != nil {
		chapter.Order = *patch.Order
	}
	if patch.Published != nil {
		chapter.Published = *patch.Published
	}

	validator := &validate.Validator{}
	validateChapter(validator, chapter)
	validator.Custom(FieldOrder, chapter.Order < 1, "Order must be positive")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.chapterRepo.Update(context, chapter); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("chapter_updated", slog.String("chapter_id", chapter.ID))
	return chapter, nil
}

// # Internal Helpers

// authorize checks that who owns the story, reading only its owner column.
func (service *Service) authorize(context context.Context, who identity.Identity, storyID string) error {
	if who.IsAnonymous() {
		return apperr.Unauthorized("Authentication required")
	}
	if !validate.IsUUID(storyID) {
		return apperr.NotFound("Story")
	}

	ownerID, err := service.storyRepo.FindOwner(context, storyID)
	if err != nil {
		return err
	}
	if !who.Owns(ownerID) {
		return apperr.Forbidden("Only the author can change this story")
	}
	return nil
}

func validateStory(story *Story) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, story.Title).MaxLen(FieldTitle, story.Title, maxTitleLength)
	validator.MaxLen(FieldDescription, story.Description, maxDescriptionLength)
	validator.Custom(FieldGenres, len(story.Genres) > maxLabels, "Too many genres")
	return validator.Err()
}

func validateChapter(validator *validate.Validator, chapter *Chapter) {
	validator.Required(FieldTitle, chapter.Title).MaxLen(FieldTitle, chapter.Title, maxTitleLength)
	validator.MaxLen(FieldContent, chapter.Content, maxContentLength)
}
