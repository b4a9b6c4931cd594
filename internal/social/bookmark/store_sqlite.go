// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bookmark

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taibuivan/stargazer/internal/platform/database/schema"
	"github.com/taibuivan/stargazer/internal/platform/dberr"
	"github.com/taibuivan/stargazer/internal/platform/sqlite"
)

// sqliteRepository implements [Repository] on the embedded store.
// The single connection serializes transactions, which is all Toggle needs.
type sqliteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository constructs an SQLite backed bookmark store.
func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (repository *sqliteRepository) Exists(ctx context.Context, userID, storyID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = ? AND %s = ?)`,
		schema.Bookmarks.Table, schema.Bookmarks.UserID, schema.Bookmarks.StoryID)

	var exists bool
	if err := repository.db.QueryRowContext(ctx, query, userID, storyID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "Bookmark", "check_bookmark")
	}
	return exists, nil
}

func (repository *sqliteRepository) Toggle(ctx context.Context, userID, storyID, newID string) (bool, error) {
	transaction, err := repository.db.BeginTx(ctx, nil)
	if err != nil {
		return false, dberr.Wrap(err, "Bookmark", "begin_toggle")
	}
	defer func() { _ = transaction.Rollback() }()

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = ? AND %s = ?`,
		schema.Bookmarks.Table, schema.Bookmarks.UserID, schema.Bookmarks.StoryID)

	result, err := transaction.ExecContext(ctx, deleteQuery, userID, storyID)
	if err != nil {
		return false, dberr.Wrap(err, "Bookmark", "delete_bookmark")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, dberr.Wrap(err, "Bookmark", "delete_bookmark")
	}

	bookmarked := affected == 0
	if bookmarked {
		insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES (?, ?, ?, ?)`,
			schema.Bookmarks.Table, schema.Bookmarks.ID, schema.Bookmarks.UserID,
			schema.Bookmarks.StoryID, schema.Bookmarks.CreatedAt)

		_, err := transaction.ExecContext(ctx, insertQuery, newID, userID, storyID, sqlite.FormatTime(sqlite.Now()))
		if err != nil {
			return false, dberr.Wrap(err, "Story", "insert_bookmark")
		}
	}

	if err := transaction.Commit(); err != nil {
		return false, dberr.Wrap(err, "Bookmark", "commit_toggle")
	}
	return bookmarked, nil
}

func (repository *sqliteRepository) ListStoryIDs(ctx context.Context, userID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ? ORDER BY %s DESC, %s DESC`,
		schema.Bookmarks.StoryID, schema.Bookmarks.Table, schema.Bookmarks.UserID,
		schema.Bookmarks.CreatedAt, schema.Bookmarks.ID)

	rows, err := repository.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Bookmark", "list_bookmarks")
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, "Bookmark", "list_bookmarks")
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Bookmark", "list_bookmarks")
	}
	return ids, nil
}
