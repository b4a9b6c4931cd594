// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taibuivan/stargazer/internal/platform/database/schema"
	"github.com/taibuivan/stargazer/internal/platform/dberr"
	"github.com/taibuivan/stargazer/internal/platform/sqlite"
)

// sqliteRepository implements [Repository] on the embedded store.
type sqliteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository constructs an SQLite backed rating store.
func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (repository *sqliteRepository) Upsert(ctx context.Context, rating *Rating) error {
	now := sqlite.FormatTime(sqlite.Now())
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (%s, %s) DO UPDATE SET %s = excluded.%s, %s = excluded.%s
		RETURNING %s, %s, %s
	`,
		schema.Ratings.Table,
		schema.Ratings.ID, schema.Ratings.UserID, schema.Ratings.StoryID, schema.Ratings.Rating,
		schema.Ratings.CreatedAt, schema.Ratings.UpdatedAt,
		schema.Ratings.UserID, schema.Ratings.StoryID,
		schema.Ratings.Rating, schema.Ratings.Rating, schema.Ratings.UpdatedAt, schema.Ratings.UpdatedAt,
		schema.Ratings.ID, schema.Ratings.CreatedAt, schema.Ratings.UpdatedAt,
	)

	err := repository.db.QueryRowContext(ctx, query,
		rating.ID, rating.UserID, rating.StoryID, rating.Score, now, now,
	).Scan(&rating.ID, sqlite.Time(&rating.CreatedAt), sqlite.Time(&rating.UpdatedAt))

	return dberr.Wrap(err, "Story", "upsert_rating")
}

func (repository *sqliteRepository) Aggregate(ctx context.Context, storyID string) (Aggregate, error) {
	query := fmt.Sprintf(`SELECT COALESCE(AVG(%s), 0.0), COUNT(*) FROM %s WHERE %s = ?`,
		schema.Ratings.Rating, schema.Ratings.Table, schema.Ratings.StoryID)

	var aggregate Aggregate
	if err := repository.db.QueryRowContext(ctx, query, storyID).Scan(&aggregate.Average, &aggregate.Count); err != nil {
		return Aggregate{}, dberr.Wrap(err, "Rating", "aggregate_ratings")
	}
	return aggregate, nil
}

func (repository *sqliteRepository) FindScore(ctx context.Context, userID, storyID string) (*int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ? AND %s = ?`,
		schema.Ratings.Rating, schema.Ratings.Table, schema.Ratings.UserID, schema.Ratings.StoryID)

	var score int
	err := repository.db.QueryRowContext(ctx, query, userID, storyID).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "Rating", "find_rating")
	}
	return &score, nil
}

func (repository *sqliteRepository) RefreshSummaries(ctx context.Context) (int64, error) {
	average := fmt.Sprintf(`COALESCE((SELECT ROUND(AVG(r.%s), 2) FROM %s r WHERE r.%s = %s.%s), 0)`,
		schema.Ratings.Rating, schema.Ratings.Table, schema.Ratings.StoryID, schema.Stories.Table, schema.Stories.ID)
	total := fmt.Sprintf(`(SELECT COUNT(*) FROM %s r WHERE r.%s = %s.%s)`,
		schema.Ratings.Table, schema.Ratings.StoryID, schema.Stories.Table, schema.Stories.ID)

	query := fmt.Sprintf(`UPDATE %[1]s SET %[2]s = %[4]s, %[3]s = %[5]s WHERE %[2]s <> %[4]s OR %[3]s <> %[5]s`,
		schema.Stories.Table, schema.Stories.RatingAvg, schema.Stories.RatingCount, average, total)

	result, err := repository.db.ExecContext(ctx, query)
	if err != nil {
		return 0, dberr.Wrap(err, "Story", "refresh_rating_summaries")
	}
	return result.RowsAffected()
}
