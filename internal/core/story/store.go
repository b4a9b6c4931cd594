// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import "context"

// # Repository Interfaces

// StoryRepository defines persistence operations for stories.
//
// Listing methods return stories newest first with chapters and author
// attached; chapter content is omitted from listings and loaded only by
// [StoryRepository.FindByID].
type StoryRepository interface {
	// List applies the normalized filter. Filter.Limit is already clamped.
	List(ctx context.Context, filter Filter) ([]*Story, error)
	ListByOwner(ctx context.Context, userID string) ([]*Story, error)
	ListByUsername(ctx context.Context, username string) ([]*Story, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Story, error)

	FindByID(ctx context.Context, id string) (*Story, error)
	// FindOwner returns only the owner id, for authorization checks.
	FindOwner(ctx context.Context, id string) (string, error)
	CountByOwner(ctx context.Context, userID string) (Stats, error)

	Create(ctx context.Context, story *Story) error
	Update(ctx context.Context, story *Story) error
	// Delete removes the story; chapters, ratings, comments and bookmarks
	// go with it through cascading foreign keys.
	Delete(ctx context.Context, id string) error
}

// ChapterRepository defines persistence operations for chapters.
type ChapterRepository interface {
	FindByID(ctx context.Context, id string) (*Chapter, error)

	// Create inserts a chapter. When chapter.Order is zero the store assigns
	// the next order for the story in the same statement and writes it back.
	Create(ctx context.Context, chapter *Chapter) error
	Update(ctx context.Context, chapter *Chapter) error
}
