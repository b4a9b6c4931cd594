// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/stargazer/internal/platform/database/schema"
	"github.com/taibuivan/stargazer/internal/platform/dberr"
)

// postgresRepository implements [Repository] using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed rating store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// Upsert relies on the (user_id, story_id) unique constraint for atomicity.
func (repository *postgresRepository) Upsert(ctx context.Context, rating *Rating) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (%s, %s) DO UPDATE SET %s = EXCLUDED.%s, %s = NOW()
		RETURNING %s, %s, %s
	`,
		schema.Ratings.Table,
		schema.Ratings.ID, schema.Ratings.UserID, schema.Ratings.StoryID, schema.Ratings.Rating,
		schema.Ratings.UserID, schema.Ratings.StoryID,
		schema.Ratings.Rating, schema.Ratings.Rating, schema.Ratings.UpdatedAt,
		schema.Ratings.ID, schema.Ratings.CreatedAt, schema.Ratings.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		rating.ID, rating.UserID, rating.StoryID, rating.Score,
	).Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt)

	return dberr.Wrap(err, "Story", "upsert_rating")
}

// Aggregate computes the live average and count for a story.
func (repository *postgresRepository) Aggregate(ctx context.Context, storyID string) (Aggregate, error) {
	query := fmt.Sprintf(`SELECT COALESCE(AVG(%s), 0)::float8, COUNT(*) FROM %s WHERE %s = $1`,
		schema.Ratings.Rating, schema.Ratings.Table, schema.Ratings.StoryID)

	var aggregate Aggregate
	if err := repository.pool.QueryRow(ctx, query, storyID).Scan(&aggregate.Average, &aggregate.Count); err != nil {
		return Aggregate{}, dberr.Wrap(err, "Rating", "aggregate_ratings")
	}
	return aggregate, nil
}

// FindScore returns the caller's score, or nil.
func (repository *postgresRepository) FindScore(ctx context.Context, userID, storyID string) (*int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.Ratings.Rating, schema.Ratings.Table, schema.Ratings.UserID, schema.Ratings.StoryID)

	var score int
	err := repository.pool.QueryRow(ctx, query, userID, storyID).Scan(&score)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "Rating", "find_rating")
	}
	return &score, nil
}

// RefreshSummaries only touches stories whose summary drifted.
func (repository *postgresRepository) RefreshSummaries(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %[1]s s
		SET %[2]s = live.average, %[3]s = live.total
		FROM (
			SELECT st.%[4]s AS story_id,
			       COALESCE(ROUND(AVG(r.%[5]s), 2), 0) AS average,
			       COUNT(r.%[6]s) AS total
			FROM %[1]s st
			LEFT JOIN %[7]s r ON r.%[8]s = st.%[4]s
			GROUP BY st.%[4]s
		) live
		WHERE s.%[4]s = live.story_id
		  AND (s.%[2]s <> live.average OR s.%[3]s <> live.total)
	`,
		schema.Stories.Table, schema.Stories.RatingAvg, schema.Stories.RatingCount, schema.Stories.ID,
		schema.Ratings.Rating, schema.Ratings.ID, schema.Ratings.Table, schema.Ratings.StoryID,
	)

	result, err := repository.pool.Exec(ctx, query)
	if err != nil {
		return 0, dberr.Wrap(err, "Story", "refresh_rating_summaries")
	}
	return result.RowsAffected(), nil
}
