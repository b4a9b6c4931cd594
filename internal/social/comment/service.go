// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/stargazer/internal/platform/apperr"
	"github.com/taibuivan/stargazer/internal/platform/ctxutil"
	"github.com/taibuivan/stargazer/internal/platform/identity"
	"github.com/taibuivan/stargazer/internal/platform/validate"
	"github.com/taibuivan/stargazer/pkg/uuid"
)

// Service is the comment feed service.
type Service struct {
	repo Repository
}

// NewService constructs a [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the feed of a story, newest first.
// An unknown story simply has an empty feed.
func (service *Service) List(context context.Context, storyID string) ([]*Comment, error) {
	if !validate.IsUUID(storyID) {
		return []*Comment{}, nil
	}
	return service.repo.ListByStory(context, storyID)
}

/*
Add posts a comment and returns it together with the refreshed feed.

Description: Content is trimmed and must be non-empty and at most
[MaxContentLength] characters. Both checks, and the anonymous check, run
before any store call. The feed is re-read after the insert so the caller
sees exactly what other readers will see.
*/
func (service *Service) Add(context context.Context, who identity.Identity, storyID, content string) (*AddResult, error) {
	if who.IsAnonymous() {
		return nil, apperr.Unauthorized("Sign in to comment")
	}

	content = strings.TrimSpace(content)

	validator := &validate.Validator{}
	validator.Required(FieldContent, content).MaxLen(FieldContent, content, MaxContentLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if !validate.IsUUID(storyID) {
		return nil, apperr.NotFound("Story")
	}

	comment := &Comment{
		ID:      uuid.New(),
		StoryID: storyID,
		UserID:  who.UserID(),
		Content: content,
	}
	if err := service.repo.Create(context, comment); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("comment_added",
		slog.String("story_id", storyID),
		slog.String("comment_id", comment.ID),
		slog.String("user_id", comment.UserID),
	)

	feed, err := service.repo.ListByStory(context, storyID)
	if err != nil {
		return nil, err
	}

	for _, entry := range feed {
		if entry.ID == comment.ID {
			comment = entry
			break
		}
	}
	return &AddResult{Comment: comment, Feed: feed}, nil
}
