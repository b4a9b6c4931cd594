// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
PostgreSQL implementation of the catalog store.

Listings run in two round trips: one for the story rows (with the author
username joined in) and one for all of their chapters. Genre overlap uses
the array operator && against a GIN index; search uses ILIKE with bound,
escaped patterns.
*/
package story

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/stargazer/internal/platform/apperr"
	"github.com/taibuivan/stargazer/internal/platform/database/schema"
	"github.com/taibuivan/stargazer/internal/platform/dberr"
)

// # PostgreSQL Repositories

// postgresStoryRepository implements the [StoryRepository] interface using pgx.
type postgresStoryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresStoryRepository constructs a PostgreSQL backed story store.
func NewPostgresStoryRepository(pool *pgxpool.Pool) StoryRepository {
	return &postgresStoryRepository{pool: pool}
}

// storySelect is the shared projection for story rows.
var storySelect = fmt.Sprintf(`
	SELECT s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, p.%s
	FROM %s s
	LEFT JOIN %s p ON p.%s = s.%s
`,
	schema.Stories.ID, schema.Stories.UserID, schema.Stories.Title, schema.Stories.Description,
	schema.Stories.Genres, schema.Stories.Tags, schema.Stories.RatingAvg, schema.Stories.RatingCount,
	schema.Stories.CreatedAt, schema.Stories.UpdatedAt, schema.Profiles.Username,
	schema.Stories.Table,
	schema.Profiles.Table, schema.Profiles.ID, schema.Stories.UserID,
)

// newestFirst orders story rows for every listing.
var newestFirst = fmt.Sprintf(" ORDER BY s.%s DESC, s.%s DESC", schema.Stories.CreatedAt, schema.Stories.ID)

/*
List returns the newest stories matching the filter.

Description: Predicates are only emitted for non-empty filter fields, so an
empty genre list adds no WHERE clause at all. Every value is bound as a
positional argument.
*/
func (repository *postgresStoryRepository) List(ctx context.Context, filter Filter) ([]*Story, error) {
	var queryBuilder strings.Builder
	var conditions []string
	var args []any

	queryBuilder.WriteString(storySelect)

	// Genre overlap
	if len(filter.Genres) > 0 {
		args = append(args, filter.Genres)
		conditions = append(conditions, fmt.Sprintf("s.%s && $%d::text[]", schema.Stories.Genres, len(args)))
	}

	// Case-insensitive substring search on title OR description
	if filter.Search != "" {
		args = append(args, containsPattern(filter.Search))
		conditions = append(conditions, fmt.Sprintf(`(s.%s ILIKE $%d ESCAPE '\' OR s.%s ILIKE $%d ESCAPE '\')`,
			schema.Stories.Title, len(args), schema.Stories.Description, len(args)))
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	args = append(args, filter.Limit)
	queryBuilder.WriteString(newestFirst)
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))

	return repository.queryStories(ctx, "list_stories", queryBuilder.String(), args...)
}

// ListByOwner returns every story owned by userID.
func (repository *postgresStoryRepository) ListByOwner(ctx context.Context, userID string) ([]*Story, error) {
	query := storySelect + fmt.Sprintf(" WHERE s.%s = $1", schema.Stories.UserID) + newestFirst
	return repository.queryStories(ctx, "list_stories_by_owner", query, userID)
}

// ListByUsername returns every story whose owner's profile has username.
func (repository *postgresStoryRepository) ListByUsername(ctx context.Context, username string) ([]*Story, error) {
	query := storySelect + fmt.Sprintf(" WHERE p.%s = $1", schema.Profiles.Username) + newestFirst
	return repository.queryStories(ctx, "list_stories_by_username", query, username)
}

// ListByIDs returns the stories among ids that still exist.
func (repository *postgresStoryRepository) ListByIDs(ctx context.Context, ids []string) ([]*Story, error) {
	if len(ids) == 0 {
		return []*Story{}, nil
	}
	query := storySelect + fmt.Sprintf(" WHERE s.%s = ANY($1::uuid[])", schema.Stories.ID) + newestFirst
	return repository.queryStories(ctx, "list_stories_by_ids", query, ids)
}

// FindByID returns one story with its chapters, content included.
func (repository *postgresStoryRepository) FindByID(ctx context.Context, id string) (*Story, error) {
	query := storySelect + fmt.Sprintf(" WHERE s.%s = $1", schema.Stories.ID)

	rows, err := repository.pool.Query(ctx, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "Story", "find_story")
	}

	stories, err := collectStories(rows)
	if err != nil {
		return nil, dberr.Wrap(err, "Story", "scan_story")
	}
	if len(stories) == 0 {
		return nil, apperr.NotFound("Story")
	}

	if err := repository.attachChapters(ctx, stories, true); err != nil {
		return nil, err
	}
	return stories[0], nil
}

// FindOwner returns the owning user id of a story.
func (repository *postgresStoryRepository) FindOwner(ctx context.Context, id string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Stories.UserID, schema.Stories.Table, schema.Stories.ID)

	var ownerID string
	if err := repository.pool.QueryRow(ctx, query, id).Scan(&ownerID); err != nil {
		return "", dberr.Wrap(err, "Story", "find_story_owner")
	}
	return ownerID, nil
}

// CountByOwner counts the stories and chapters a user has written.
func (repository *postgresStoryRepository) CountByOwner(ctx context.Context, userID string) (Stats, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(DISTINCT s.%s), COUNT(c.%s)
		FROM %s s
		LEFT JOIN %s c ON c.%s = s.%s
		WHERE s.%s = $1
	`,
		schema.Stories.ID, schema.Chapters.ID,
		schema.Stories.Table,
		schema.Chapters.Table, schema.Chapters.StoryID, schema.Stories.ID,
		schema.Stories.UserID,
	)

	var stats Stats
	if err := repository.pool.QueryRow(ctx, query, userID).Scan(&stats.Stories, &stats.Chapters); err != nil {
		return Stats{}, dberr.Wrap(err, "Story", "count_stories")
	}
	return stats, nil
}

// Create inserts a story and fills in its timestamps.
func (repository *postgresStoryRepository) Create(ctx context.Context, story *Story) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s
	`,
		schema.Stories.Table,
		schema.Stories.ID, schema.Stories.UserID, schema.Stories.Title,
		schema.Stories.Description, schema.Stories.Genres, schema.Stories.Tags,
		schema.Stories.CreatedAt, schema.Stories.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		story.ID, story.UserID, story.Title, story.Description, story.Genres, story.Tags,
	).Scan(&story.CreatedAt, &story.UpdatedAt)

	return dberr.Wrap(err, "Story", "create_story")
}

// Update overwrites the mutable story fields.
func (repository *postgresStoryRepository) Update(ctx context.Context, story *Story) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.Stories.Table,
		schema.Stories.Title, schema.Stories.Description, schema.Stories.Genres, schema.Stories.Tags,
		schema.Stories.UpdatedAt,
		schema.Stories.ID,
		schema.Stories.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		story.ID, story.Title, story.Description, story.Genres, story.Tags,
	).Scan(&story.UpdatedAt)

	return dberr.Wrap(err, "Story", "update_story")
}

// Delete removes a story and, through cascades, everything hanging off it.
func (repository *postgresStoryRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Stories.Table, schema.Stories.ID)

	result, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "Story", "delete_story")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Story")
	}
	return nil
}

// # Internal Helpers

// queryStories runs a story projection query and hydrates chapters.
func (repository *postgresStoryRepository) queryStories(ctx context.Context, action, query string, args ...any) ([]*Story, error) {
	rows, err := repository.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "Story", action)
	}

	stories, err := collectStories(rows)
	if err != nil {
		return nil, dberr.Wrap(err, "Story", action)
	}

	if err := repository.attachChapters(ctx, stories, false); err != nil {
		return nil, err
	}
	return stories, nil
}

// collectStories scans and closes a story projection result set.
func collectStories(rows pgx.Rows) ([]*Story, error) {
	defer rows.Close()

	stories := make([]*Story, 0)
	for rows.Next() {
		var story Story
		var username *string

		err := rows.Scan(
			&story.ID, &story.UserID, &story.Title, &story.Description,
			&story.Genres, &story.Tags, &story.RatingAvg, &story.RatingCount,
			&story.CreatedAt, &story.UpdatedAt, &username,
		)
		if err != nil {
			return nil, err
		}

		if username != nil {
			story.Author = &Author{Username: *username}
		}
		stories = append(stories, &story)
	}

	return stories, rows.Err()
}

// attachChapters loads the chapters of all stories in one query.
func (repository *postgresStoryRepository) attachChapters(ctx context.Context, stories []*Story, withContent bool) error {
	if len(stories) == 0 {
		return nil
	}
	byID, ids := indexStories(stories)

	contentColumn := "''"
	if withContent {
		contentColumn = schema.Chapters.Content
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = ANY($1::uuid[])
		ORDER BY %s, %s
	`,
		schema.Chapters.ID, schema.Chapters.StoryID, schema.Chapters.Title, contentColumn,
		schema.Chapters.Order, schema.Chapters.Published, schema.Chapters.CreatedAt, schema.Chapters.UpdatedAt,
		schema.Chapters.Table,
		schema.Chapters.StoryID,
		schema.Chapters.StoryID, schema.Chapters.Order,
	)

	rows, err := repository.pool.Query(ctx, query, ids)
	if err != nil {
		return dberr.Wrap(err, "Chapter", "list_chapters")
	}
	defer rows.Close()

	for rows.Next() {
		var chapter Chapter
		err := rows.Scan(
			&chapter.ID, &chapter.StoryID, &chapter.Title, &chapter.Content,
			&chapter.Order, &chapter.Published, &chapter.CreatedAt, &chapter.UpdatedAt,
		)
		if err != nil {
			return dberr.Wrap(err, "Chapter", "scan_chapter")
		}

		if story, ok := byID[chapter.StoryID]; ok {
			story.Chapters = append(story.Chapters, &chapter)
		}
	}

	return dberr.Wrap(rows.Err(), "Chapter", "list_chapters")
}

// postgresChapterRepository implements the [ChapterRepository] interface using pgx.
type postgresChapterRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresChapterRepository constructs a PostgreSQL backed chapter store.
func NewPostgresChapterRepository(pool *pgxpool.Pool) ChapterRepository {
	return &postgresChapterRepository{pool: pool}
}

// FindByID returns a chapter with its content.
func (repository *postgresChapterRepository) FindByID(ctx context.Context, id string) (*Chapter, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.Chapters.ID, schema.Chapters.StoryID, schema.Chapters.Title, schema.Chapters.Content,
		schema.Chapters.Order, schema.Chapters.Published, schema.Chapters.CreatedAt, schema.Chapters.UpdatedAt,
		schema.Chapters.Table,
		schema.Chapters.ID,
	)

	var chapter Chapter
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&chapter.ID, &chapter.StoryID, &chapter.Title, &chapter.Content,
		&chapter.Order, &chapter.Published, &chapter.CreatedAt, &chapter.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Chapter", "find_chapter")
	}
	return &chapter, nil
}

/*
Create inserts a chapter.

Description: A zero Order is resolved inside the INSERT as MAX(order)+1 for
the story, so assignment and insert happen in one statement. Two concurrent
appends can still pick the same number; the loser gets CONFLICT from the
(story_id, order) unique constraint.
*/
func (repository *postgresChapterRepository) Create(ctx context.Context, chapter *Chapter) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES (
			$1, $2, $3, $4,
			COALESCE(NULLIF($5::int, 0), (SELECT COALESCE(MAX(%s), 0) + 1 FROM %s WHERE %s = $2)),
			$6
		)
		RETURNING %s, %s, %s
	`,
		schema.Chapters.Table,
		schema.Chapters.ID, schema.Chapters.StoryID, schema.Chapters.Title, schema.Chapters.Content,
		schema.Chapters.Order, schema.Chapters.Published,
		schema.Chapters.Order, schema.Chapters.Table, schema.Chapters.StoryID,
		schema.Chapters.Order, schema.Chapters.CreatedAt, schema.Chapters.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		chapter.ID, chapter.StoryID, chapter.Title, chapter.Content, chapter.Order, chapter.Published,
	).Scan(&chapter.Order, &chapter.CreatedAt, &chapter.UpdatedAt)

	return chapterWriteError(err, "create_chapter")
}

// Update overwrites the mutable chapter fields.
func (repository *postgresChapterRepository) Update(ctx context.Context, chapter *Chapter) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.Chapters.Table,
		schema.Chapters.Title, schema.Chapters.Content, schema.Chapters.Order, schema.Chapters.Published,
		schema.Chapters.UpdatedAt,
		schema.Chapters.ID,
		schema.Chapters.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		chapter.ID, chapter.Title, chapter.Content, chapter.Order, chapter.Published,
	).Scan(&chapter.UpdatedAt)

	return chapterWriteError(err, "update_chapter")
}

// chapterWriteError classifies chapter insert/update failures.
// Both backends share it.
func chapterWriteError(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err):
		conflict := apperr.Conflict("A chapter with this order already exists")
		conflict.Cause = err
		return conflict
	case dberr.IsForeignKeyViolation(err):
		return apperr.NotFound("Story")
	default:
		return dberr.Wrap(err, "Chapter", action)
	}
}
