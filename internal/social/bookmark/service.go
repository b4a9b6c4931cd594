// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bookmark

import (
	"context"
	"log/slog"
	"slices"

	"github.com/taibuivan/stargazer/internal/core/story"
	"github.com/taibuivan/stargazer/internal/platform/apperr"
	"github.com/taibuivan/stargazer/internal/platform/ctxutil"
	"github.com/taibuivan/stargazer/internal/platform/identity"
	"github.com/taibuivan/stargazer/internal/platform/validate"
	"github.com/taibuivan/stargazer/pkg/uuid"
)

// StoryLister resolves bookmarked ids into catalog entries.
type StoryLister interface {
	ListStoriesByIDs(ctx context.Context, ids []string) ([]*story.Story, error)
}

// Service is the bookmark toggle service.
type Service struct {
	repo    Repository
	stories StoryLister
}

// NewService constructs a [Service].
func NewService(repo Repository, stories StoryLister) *Service {
	return &Service{repo: repo, stories: stories}
}

// IsBookmarked reports whether the caller saved the story.
// Anonymous callers have no bookmarks.
func (service *Service) IsBookmarked(context context.Context, who identity.Identity, storyID string) (bool, error) {
	if who.IsAnonymous() || !validate.IsUUID(storyID) {
		return false, nil
	}
	return service.repo.Exists(context, who.UserID(), storyID)
}

/*
Toggle flips the caller's bookmark on a story.

Returns:
  - bool: the persisted state after the call
  - error: UNAUTHORIZED for anonymous callers, NOT_FOUND for unknown stories
*/
func (service *Service) Toggle(context context.Context, who identity.Identity, storyID string) (bool, error) {
	if who.IsAnonymous() {
		return false, apperr.Unauthorized("Sign in to bookmark stories")
	}
	if !validate.IsUUID(storyID) {
		return false, apperr.NotFound("Story")
	}

	bookmarked, err := service.repo.Toggle(context, who.UserID(), storyID, uuid.New())
	if err != nil {
		return false, err
	}

	ctxutil.GetLogger(context).Info("bookmark_toggled",
		slog.String("story_id", storyID),
		slog.String("user_id", who.UserID()),
		slog.Bool("bookmarked", bookmarked),
	)
	return bookmarked, nil
}

// ListBookmarkedStories returns the caller's saved stories, most recently
// bookmarked first.
func (service *Service) ListBookmarkedStories(context context.Context, who identity.Identity) ([]*story.Story, error) {
	if who.IsAnonymous() {
		return []*story.Story{}, apperr.Unauthorized("Authentication required")
	}

	ids, err := service.repo.ListStoryIDs(context, who.UserID())
	if err != nil {
		return []*story.Story{}, err
	}

	stories, err := service.stories.ListStoriesByIDs(context, ids)
	if err != nil {
		return []*story.Story{}, err
	}

	position := make(map[string]int, len(ids))
	for index, id := range ids {
		position[id] = index
	}
	slices.SortStableFunc(stories, func(a, b *story.Story) int {
		return position[a.ID] - position[b.ID]
	})
	return stories, nil
}
