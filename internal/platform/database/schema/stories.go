// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// StoriesTable represents the 'stories' table
type StoriesTable struct {
	Table       string
	ID          string
	UserID      string
	Title       string
	Description string
	Genres      string
	Tags        string
	RatingAvg   string
	RatingCount string
	CreatedAt   string
	UpdatedAt   string
}

// Stories is the schema definition for stories
var Stories = StoriesTable{
	Table:       "stories",
	ID:          "id",
	UserID:      "user_id",
	Title:       "title",
	Description: "description",
	Genres:      "genres",
	Tags:        "tags",
	RatingAvg:   "rating_avg",
	RatingCount: "rating_count",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

// ChaptersTable represents the 'chapters' table
type ChaptersTable struct {
	Table     string
	ID        string
	StoryID   string
	Title     string
	Content   string
	Order     string
	Published string
	CreatedAt string
	UpdatedAt string
}

// Chapters is the schema definition for chapters.
// Order is pre-quoted because ORDER is reserved.
var Chapters = ChaptersTable{
	Table:     "chapters",
	ID:        "id",
	StoryID:   "story_id",
	Title:     "title",
	Content:   "content",
	Order:     Quote("order"),
	Published: "published",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}
