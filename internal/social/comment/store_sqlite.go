// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taibuivan/stargazer/internal/platform/database/schema"
	"github.com/taibuivan/stargazer/internal/platform/dberr"
	"github.com/taibuivan/stargazer/internal/platform/sqlite"
)

// sqliteRepository implements [Repository] on the embedded store.
type sqliteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository constructs an SQLite backed comment store.
func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (repository *sqliteRepository) ListByStory(ctx context.Context, storyID string) ([]*Comment, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, c.%s, p.%s
		FROM %s c
		LEFT JOIN %s p ON p.%s = c.%s
		WHERE c.%s = ?
		ORDER BY c.%s DESC, c.%s DESC
	`,
		schema.Comments.ID, schema.Comments.StoryID, schema.Comments.UserID,
		schema.Comments.Content, schema.Comments.CreatedAt, schema.Profiles.Username,
		schema.Comments.Table,
		schema.Profiles.Table, schema.Profiles.ID, schema.Comments.UserID,
		schema.Comments.StoryID,
		schema.Comments.CreatedAt, schema.Comments.ID,
	)

	rows, err := repository.db.QueryContext(ctx, query, storyID)
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "list_comments")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		var comment Comment
		var username sql.NullString

		err := rows.Scan(&comment.ID, &comment.StoryID, &comment.UserID, &comment.Content,
			sqlite.Time(&comment.CreatedAt), &username)
		if err != nil {
			return nil, dberr.Wrap(err, "Comment", "scan_comment")
		}
		if username.Valid {
			comment.Author = &Author{Username: username.String}
		}
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Comment", "list_comments")
	}
	return comments, nil
}

func (repository *sqliteRepository) Create(ctx context.Context, comment *Comment) error {
	now := sqlite.Now()
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES (?, ?, ?, ?, ?)`,
		schema.Comments.Table,
		schema.Comments.ID, schema.Comments.StoryID, schema.Comments.UserID,
		schema.Comments.Content, schema.Comments.CreatedAt,
	)

	_, err := repository.db.ExecContext(ctx, query,
		comment.ID, comment.StoryID, comment.UserID, comment.Content, sqlite.FormatTime(now))
	if err != nil {
		return dberr.Wrap(err, "Story", "create_comment")
	}

	comment.CreatedAt = now
	return nil
}
