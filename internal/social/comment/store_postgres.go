// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/stargazer/internal/platform/database/schema"
	"github.com/taibuivan/stargazer/internal/platform/dberr"
)

// postgresRepository implements [Repository] using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed comment store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (repository *postgresRepository) ListByStory(ctx context.Context, storyID string) ([]*Comment, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, c.%s, p.%s
		FROM %s c
		LEFT JOIN %s p ON p.%s = c.%s
		WHERE c.%s = $1
		ORDER BY c.%s DESC, c.%s DESC
	`,
		schema.Comments.ID, schema.Comments.StoryID, schema.Comments.UserID,
		schema.Comments.Content, schema.Comments.CreatedAt, schema.Profiles.Username,
		schema.Comments.Table,
		schema.Profiles.Table, schema.Profiles.ID, schema.Comments.UserID,
		schema.Comments.StoryID,
		schema.Comments.CreatedAt, schema.Comments.ID,
	)

	rows, err := repository.pool.Query(ctx, query, storyID)
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "list_comments")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		var comment Comment
		var username *string

		err := rows.Scan(&comment.ID, &comment.StoryID, &comment.UserID, &comment.Content, &comment.CreatedAt, &username)
		if err != nil {
			return nil, dberr.Wrap(err, "Comment", "scan_comment")
		}
		if username != nil {
			comment.Author = &Author{Username: *username}
		}
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Comment", "list_comments")
	}
	return comments, nil
}

func (repository *postgresRepository) Create(ctx context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`,
		schema.Comments.Table,
		schema.Comments.ID, schema.Comments.StoryID, schema.Comments.UserID, schema.Comments.Content,
		schema.Comments.CreatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		comment.ID, comment.StoryID, comment.UserID, comment.Content,
	).Scan(&comment.CreatedAt)

	return dberr.Wrap(err, "Story", "create_comment")
}
