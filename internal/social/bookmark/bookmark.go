// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package bookmark implements the per-user reading list.

Toggling is idempotent with respect to the persisted state: the store
checks and flips the (user, story) row inside one serialized transaction
and reports what it left behind, so concurrent toggles from the same user
can never create two rows or report a state that was not written.
*/
package bookmark

import (
	"context"
	"time"
)

// Bookmark marks a story as saved by a user.
type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	StoryID   string    `json:"story_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists bookmarks.
type Repository interface {
	Exists(ctx context.Context, userID, storyID string) (bool, error)

	// Toggle deletes the row when present and inserts one otherwise, then
	// returns whether a bookmark now exists. newID is used on insert.
	Toggle(ctx context.Context, userID, storyID, newID string) (bool, error)

	// ListStoryIDs returns the bookmarked story ids, most recent first.
	ListStoryIDs(ctx context.Context, userID string) ([]string, error)
}
