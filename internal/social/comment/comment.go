// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comment implements the append-only discussion feed of a story.

Comments cannot be edited or deleted; they disappear only with their story.
*/
package comment

import (
	"context"
	"time"
)

// MaxContentLength bounds a comment in Unicode characters.
const (
	MaxContentLength = 5000
	FieldContent     = "content"
)

// Author is the commenter's display identity, absent without a profile.
type Author struct {
	Username string `json:"username"`
}

// Comment is one entry of a story's feed.
type Comment struct {
	ID        string    `json:"id"`
	StoryID   string    `json:"story_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Author    *Author   `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AddResult is returned after posting: the new comment and the refreshed feed.
type AddResult struct {
	Comment *Comment   `json:"comment"`
	Feed    []*Comment `json:"feed"`
}

// Repository persists comments.
type Repository interface {
	// ListByStory returns the feed newest first (created_at, then id, descending).
	ListByStory(ctx context.Context, storyID string) ([]*Comment, error)

	// Create inserts a comment. A missing story is NOT_FOUND.
	Create(ctx context.Context, comment *Comment) error
}
