// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import "context"

// Repository persists ratings and computes aggregates.
type Repository interface {
	// Upsert inserts the rating or replaces the score of the existing
	// (user, story) row in one statement. A missing story is NOT_FOUND.
	Upsert(ctx context.Context, rating *Rating) error

	Aggregate(ctx context.Context, storyID string) (Aggregate, error)

	// FindScore returns nil when the user never rated the story.
	FindScore(ctx context.Context, userID, storyID string) (*int, error)

	// RefreshSummaries rewrites the denormalized rating columns on stories
	// and reports how many rows were touched.
	RefreshSummaries(ctx context.Context) (int64, error)
}

/*
AggregateCache is an optional read-through cache for aggregates.

Each story carries a version that Invalidate bumps. A reader takes the
version before computing an aggregate and hands it back to Set, which drops
the write when a rating landed in between.
*/
type AggregateCache interface {
	Get(ctx context.Context, storyID string) (Aggregate, bool, error)
	Version(ctx context.Context, storyID string) (int64, error)
	Set(ctx context.Context, storyID string, aggregate Aggregate, version int64) error
	Invalidate(ctx context.Context, storyID string) error
}
