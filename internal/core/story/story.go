// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package story implements the catalog: stories, their ordered chapters, and
the discovery query engine over them.

Reads are open to everyone. Story and chapter mutations are owner-gated:
an anonymous caller is rejected with UNAUTHORIZED and anyone but the owner
with FORBIDDEN, both before the store is asked to change anything.
*/
package story

import (
	"slices"
	"strings"
	"time"
)

// # Domain Entities

// Author is the display identity attached to a story.
// It is nil when the owner has not created a profile yet.
type Author struct {
	Username string `json:"username"`
}

// Story is a serialized work owned by one user.
type Story struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Genres      []string   `json:"genres"`
	Tags        []string   `json:"tags"`
	Chapters    []*Chapter `json:"chapters"`
	Author      *Author    `json:"author,omitempty"`

	// ContentWarnings is derived from Genres on every read.
	ContentWarnings []string `json:"content_warnings,omitempty"`

	// RatingAvg and RatingCount are a periodically refreshed summary.
	// The rating service is authoritative for live values.
	RatingAvg   float64 `json:"rating_avg"`
	RatingCount int     `json:"rating_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Chapter is one installment of a story.
//
// Published is advisory: readers see every chapter regardless of it.
type Chapter struct {
	ID        string    `json:"id"`
	StoryID   string    `json:"story_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Order     int       `json:"order"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stats summarizes an author's catalog footprint.
type Stats struct {
	Stories  int `json:"stories"`
	Chapters int `json:"chapters"`
}

// # Query & Mutation Inputs

// Filter narrows a catalog listing.
//
// An empty Genres slice and an empty Search mean "no constraint"; when both
// are present a story must satisfy both.
type Filter struct {
	Limit  int
	Genres []string
	Search string
}

// CreateInput carries the fields a new story starts with.
type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	Tags        []string `json:"tags"`
}

// Patch is a partial story update. Nil fields are left unchanged; an empty
// (non-nil) slice clears the list.
type Patch struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Genres      []string `json:"genres"`
	Tags        []string `json:"tags"`
}

// ChapterInput carries the fields of a new chapter. A zero Order appends
// the chapter after the current last one.
type ChapterInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Order     int    `json:"order"`
	Published bool   `json:"published"`
}

// ChapterPatch is a partial chapter update. Nil fields are left unchanged.
type ChapterPatch struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Order     *int    `json:"order"`
	Published *bool   `json:"published"`
}

// Validation field names and limits.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldContent     = "content"
	FieldOrder       = "order"
	FieldGenres      = "genres"

	maxTitleLength       = 200
	maxDescriptionLength = 10000
	maxContentLength     = 200000
	maxLabels            = 30
)

// # Helpers

// NormalizeLabels trims, drops empties and de-duplicates while keeping the
// first-seen order. A nil input stays nil.
func NormalizeLabels(labels []string) []string {
	if labels == nil {
		return nil
	}

	result := make([]string, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" || slices.Contains(result, label) {
			continue
		}
		result = append(result, label)
	}
	return result
}

// sortChapters orders chapters ascending by Order, ties broken by ID.
func sortChapters(chapters []*Chapter) {
	slices.SortStableFunc(chapters, func(a, b *Chapter) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// prepare enforces the invariants every returned story carries.
func prepare(stories []*Story) []*Story {
	if stories == nil {
		return []*Story{}
	}
	for _, story := range stories {
		if story.Chapters == nil {
			story.Chapters = []*Chapter{}
		}
		if story.Genres == nil {
			story.Genres = []string{}
		}
		if story.Tags == nil {
			story.Tags = []string{}
		}
		sortChapters(story.Chapters)
		story.ContentWarnings = ContentWarnings(story.Genres)
	}
	return stories
}
