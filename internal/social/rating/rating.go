// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package rating implements 1 to 5 star scoring of stories.

Each user holds at most one rating per story; rating again replaces the
previous score in a single upsert. The aggregate (average and count) is
computed from the ratings table on demand and may be cached briefly.
*/
package rating

import "time"

// Score bounds, inclusive.
const (
	MinScore = 1
	MaxScore = 5

	FieldValue = "value"
)

// Rating is one user's score for one story.
type Rating struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	StoryID   string    `json:"story_id"`
	Score     int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Aggregate summarizes every rating of a story.
// A story nobody rated has {0, 0}.
type Aggregate struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
