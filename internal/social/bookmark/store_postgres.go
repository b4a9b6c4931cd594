// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bookmark

import (
	"context"
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

// NewPostgresRepository constructs a PostgreSQL backed bookmark store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (repository *postgresRepository) Exists(ctx context.Context, userID, storyID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.Bookmarks.Table, schema.Bookmarks.UserID, schema.Bookmarks.StoryID)

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, userID, storyID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "Bookmark", "check_bookmark")
	}
	return exists, nil
}

/*
Toggle flips the bookmark inside one transaction.

Description: A transaction-scoped advisory lock keyed on (user, story)
serializes concurrent toggles of the same pair, so the existence check and
the write observe each other. The lock is released on commit or rollback.
*/
func (repository *postgresRepository) Toggle(ctx context.Context, userID, storyID, newID string) (bool, error) {
	transaction, err := repository.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, dberr.Wrap(err, "Bookmark", "begin_toggle")
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	if _, err := transaction.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, "bookmark:"+userID+":"+storyID); err != nil {
		return false, dberr.Wrap(err, "Bookmark", "lock_toggle")
	}

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.Bookmarks.Table, schema.Bookmarks.UserID, schema.Bookmarks.StoryID)

	result, err := transaction.Exec(ctx, deleteQuery, userID, storyID)
	if err != nil {
		return false, dberr.Wrap(err, "Bookmark", "delete_bookmark")
	}

	bookmarked := result.RowsAffected() == 0
	if bookmarked {
		insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
			schema.Bookmarks.Table, schema.Bookmarks.ID, schema.Bookmarks.UserID, schema.Bookmarks.StoryID)

		if _, err := transaction.Exec(ctx, insertQuery, newID, userID, storyID); err != nil {
			return false, dberr.Wrap(err, "Story", "insert_bookmark")
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return false, dberr.Wrap(err, "Bookmark", "commit_toggle")
	}
	return bookmarked, nil
}

func (repository *postgresRepository) ListStoryIDs(ctx context.Context, userID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s::text FROM %s WHERE %s = $1 ORDER BY %s DESC, %s DESC`,
		schema.Bookmarks.StoryID, schema.Bookmarks.Table, schema.Bookmarks.UserID,
		schema.Bookmarks.CreatedAt, schema.Bookmarks.ID)

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Bookmark", "list_bookmarks")
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, dberr.Wrap(err, "Bookmark", "list_bookmarks")
	}
	return ids, nil
}
