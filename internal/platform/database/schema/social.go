// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// RatingsTable represents the 'ratings' table
type RatingsTable struct {
	Table     string
	ID        string
	UserID    string
	StoryID   string
	Rating    string
	CreatedAt string
	UpdatedAt string
}

// Ratings is the schema definition for ratings
var Ratings = RatingsTable{
	Table:     "ratings",
	ID:        "id",
	UserID:    "user_id",
	StoryID:   "story_id",
	Rating:    "rating",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

// CommentsTable represents the 'comments' table
type CommentsTable struct {
	Table     string
	ID        string
	StoryID   string
	UserID    string
	Content   string
	CreatedAt string
}

// Comments is the schema definition for comments
var Comments = CommentsTable{
	Table:     "comments",
	ID:        "id",
	StoryID:   "story_id",
	UserID:    "user_id",
	Content:   "content",
	CreatedAt: "created_at",
}

// BookmarksTable represents the 'bookmarks' table
type BookmarksTable struct {
	Table     string
	ID        string
	UserID    string
	StoryID   string
	CreatedAt string
}

// Bookmarks is the schema definition for bookmarks
var Bookmarks = BookmarksTable{
	Table:     "bookmarks",
	ID:        "id",
	UserID:    "user_id",
	StoryID:   "story_id",
	CreatedAt: "created_at",
}
