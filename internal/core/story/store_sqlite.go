// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/taibuivan/stargazer/internal/platform/apperr"
	"github.com/taibuivan/stargazer/internal/platform/database/schema"
	"github.com/taibuivan/stargazer/internal/platform/dberr"
	"github.com/taibuivan/stargazer/internal/platform/sqlite"
)

// # SQLite Repositories

// sqliteStoryRepository implements the [StoryRepository] interface on the embedded store.
//
// The handle has a single connection, so every result set is drained and
// closed before the next statement runs.
type sqliteStoryRepository struct {
	db *sql.DB
}

// NewSQLiteStoryRepository constructs an SQLite backed story store.
func NewSQLiteStoryRepository(db *sql.DB) StoryRepository {
	return &sqliteStoryRepository{db: db}
}

// List returns the newest stories matching the filter.
func (repository *sqliteStoryRepository) List(ctx context.Context, filter Filter) ([]*Story, error) {
	var queryBuilder strings.Builder
	var conditions []string
	var args []any

	queryBuilder.WriteString(storySelect)

	// Genre overlap: any stored genre is among the requested ones
	if len(filter.Genres) > 0 {
		requested, err := sqlite.EncodeJSON(filter.Genres)
		if err != nil {
			return nil, apperr.StoreFailure(err)
		}
		args = append(args, requested)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM json_each(s.%s) g WHERE g.value IN (SELECT value FROM json_each(?)))",
			schema.Stories.Genres))
	}

	// LIKE is case-insensitive for ASCII in SQLite
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		args = append(args, pattern, pattern)
		conditions = append(conditions, fmt.Sprintf(`(s.%s LIKE ? ESCAPE '\' OR s.%s LIKE ? ESCAPE '\')`,
			schema.Stories.Title, schema.Stories.Description))
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	args = append(args, filter.Limit)
	queryBuilder.WriteString(newestFirst)
	queryBuilder.WriteString(" LIMIT ?")

	return repository.queryStories(ctx, "list_stories", queryBuilder.String(), args...)
}

// ListByOwner returns every story owned by userID.
func (repository *sqliteStoryRepository) ListByOwner(ctx context.Context, userID string) ([]*Story, error) {
	query := storySelect + fmt.Sprintf(" WHERE s.%s = ?", schema.Stories.UserID) + newestFirst
	return repository.queryStories(ctx, "list_stories_by_owner", query, userID)
}

// ListByUsername returns every story whose owner's profile has username.
func (repository *sqliteStoryRepository) ListByUsername(ctx context.Context, username string) ([]*Story, error) {
	query := storySelect + fmt.Sprintf(" WHERE p.%s = ?", schema.Profiles.Username) + newestFirst
	return repository.queryStories(ctx, "list_stories_by_username", query, username)
}

// ListByIDs returns the stories among ids that still exist.
func (repository *sqliteStoryRepository) ListByIDs(ctx context.Context, ids []string) ([]*Story, error) {
	if len(ids) == 0 {
		return []*Story{}, nil
	}
	encoded, err := sqlite.EncodeJSON(ids)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	query := storySelect + fmt.Sprintf(" WHERE s.%s IN (SELECT value FROM json_each(?))", schema.Stories.ID) + newestFirst
	return repository.queryStories(ctx, "list_stories_by_ids", query, encoded)
}

// FindByID returns one story with its chapters, content included.
func (repository *sqliteStoryRepository) FindByID(ctx context.Context, id string) (*Story, error) {
	query := storySelect + fmt.Sprintf(" WHERE s.%s = ?", schema.Stories.ID)

	stories, err := repository.scanStories(ctx, "find_story", query, id)
	if err != nil {
		return nil, err
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
func (repository *sqliteStoryRepository) FindOwner(ctx context.Context, id string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`,
		schema.Stories.UserID, schema.Stories.Table, schema.Stories.ID)

	var ownerID string
	if err := repository.db.QueryRowContext(ctx, query, id).Scan(&ownerID); err != nil {
		return "", dberr.Wrap(err, "Story", "find_story_owner")
	}
	return ownerID, nil
}

// CountByOwner counts the stories and chapters a user has written.
func (repository *sqliteStoryRepository) CountByOwner(ctx context.Context, userID string) (Stats, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(DISTINCT s.%s), COUNT(c.%s)
		FROM %s s
		LEFT JOIN %s c ON c.%s = s.%s
		WHERE s.%s = ?
	`,
		schema.Stories.ID, schema.Chapters.ID,
		schema.Stories.Table,
		schema.Chapters.Table, schema.Chapters.StoryID, schema.Stories.ID,
		schema.Stories.UserID,
	)

	var stats Stats
	if err := repository.db.QueryRowContext(ctx, query, userID).Scan(&stats.Stories, &stats.Chapters); err != nil {
		return Stats{}, dberr.Wrap(err, "Story", "count_stories")
	}
	return stats, nil
}

// Create inserts a story and fills in its timestamps.
func (repository *sqliteStoryRepository) Create(ctx context.Context, story *Story) error {
	genres, tags, err := encodeLabels(story)
	if err != nil {
		return err
	}

	now := sqlite.Now()
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		schema.Stories.Table,
		schema.Stories.ID, schema.Stories.UserID, schema.Stories.Title, schema.Stories.Description,
		schema.Stories.Genres, schema.Stories.Tags, schema.Stories.CreatedAt, schema.Stories.UpdatedAt,
	)

	_, err = repository.db.ExecContext(ctx, query,
		story.ID, story.UserID, story.Title, story.Description, genres, tags,
		sqlite.FormatTime(now), sqlite.FormatTime(now),
	)
	if err != nil {
		return dberr.Wrap(err, "Story", "create_story")
	}

	story.CreatedAt, story.UpdatedAt = now, now
	return nil
}

// Update overwrites the mutable story fields.
func (repository *sqliteStoryRepository) Update(ctx context.Context, story *Story) error {
	genres, tags, err := encodeLabels(story)
	if err != nil {
		return err
	}

	now := sqlite.Now()
	query := fmt.Sprintf(`UPDATE %s SET %s = ?, %s = ?, %s = ?, %s = ?, %s = ? WHERE %s = ?`,
		schema.Stories.Table,
		schema.Stories.Title, schema.Stories.Description, schema.Stories.Genres, schema.Stories.Tags,
		schema.Stories.UpdatedAt,
		schema.Stories.ID,
	)

	result, err := repository.db.ExecContext(ctx, query,
		story.Title, story.Description, genres, tags, sqlite.FormatTime(now), story.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "Story", "update_story")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperr.NotFound("Story")
	}

	story.UpdatedAt = now
	return nil
}

// Delete removes a story and, through cascades, everything hanging off it.
func (repository *sqliteStoryRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, schema.Stories.Table, schema.Stories.ID)

	result, err := repository.db.ExecContext(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "Story", "delete_story")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperr.NotFound("Story")
	}
	return nil
}

// # Internal Helpers

func (repository *sqliteStoryRepository) queryStories(ctx context.Context, action, query string, args ...any) ([]*Story, error) {
	stories, err := repository.scanStories(ctx, action, query, args...)
	if err != nil {
		return nil, err
	}
	if err := repository.attachChapters(ctx, stories, false); err != nil {
		return nil, err
	}
	return stories, nil
}

// scanStories drains a story projection result set completely.
func (repository *sqliteStoryRepository) scanStories(ctx context.Context, action, query string, args ...any) ([]*Story, error) {
	rows, err := repository.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "Story", action)
	}
	defer rows.Close()

	stories := make([]*Story, 0)
	for rows.Next() {
		var story Story
		var username sql.NullString

		err := rows.Scan(
			&story.ID, &story.UserID, &story.Title, &story.Description,
			sqlite.JSON(&story.Genres), sqlite.JSON(&story.Tags), &story.RatingAvg, &story.RatingCount,
			sqlite.Time(&story.CreatedAt), sqlite.Time(&story.UpdatedAt), &username,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "Story", action)
		}

		if username.Valid {
			story.Author = &Author{Username: username.String}
		}
		stories = append(stories, &story)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Story", action)
	}
	return stories, nil
}

func (repository *sqliteStoryRepository) attachChapters(ctx context.Context, stories []*Story, withContent bool) error {
	if len(stories) == 0 {
		return nil
	}
	byID, ids := indexStories(stories)

	encoded, err := sqlite.EncodeJSON(ids)
	if err != nil {
		return apperr.StoreFailure(err)
	}

	contentColumn := "''"
	if withContent {
		contentColumn = schema.Chapters.Content
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s IN (SELECT value FROM json_each(?))
		ORDER BY %s, %s
	`,
		schema.Chapters.ID, schema.Chapters.StoryID, schema.Chapters.Title, contentColumn,
		schema.Chapters.Order, schema.Chapters.Published, schema.Chapters.CreatedAt, schema.Chapters.UpdatedAt,
		schema.Chapters.Table,
		schema.Chapters.StoryID,
		schema.Chapters.StoryID, schema.Chapters.Order,
	)

	rows, err := repository.db.QueryContext(ctx, query, encoded)
	if err != nil {
		return dberr.Wrap(err, "Chapter", "list_chapters")
	}
	defer rows.Close()

	for rows.Next() {
		chapter, err := scanChapter(rows)
		if err != nil {
			return dberr.Wrap(err, "Chapter", "scan_chapter")
		}
		if story, ok := byID[chapter.StoryID]; ok {
			story.Chapters = append(story.Chapters, chapter)
		}
	}

	return dberr.Wrap(rows.Err(), "Chapter", "list_chapters")
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanChapter(row rowScanner) (*Chapter, error) {
	var chapter Chapter
	err := row.Scan(
		&chapter.ID, &chapter.StoryID, &chapter.Title, &chapter.Content,
		&chapter.Order, &chapter.Published, sqlite.Time(&chapter.CreatedAt), sqlite.Time(&chapter.UpdatedAt),
	)
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func encodeLabels(story *Story) (string, string, error) {
	genres, err := sqlite.EncodeJSON(story.Genres)
	if err != nil {
		return "", "", apperr.StoreFailure(err)
	}
	tags, err := sqlite.EncodeJSON(story.Tags)
	if err != nil {
		return "", "", apperr.StoreFailure(err)
	}
	return genres, tags, nil
}

// sqliteChapterRepository implements the [ChapterRepository] interface on the embedded store.
type sqliteChapterRepository struct {
	db *sql.DB
}

// NewSQLiteChapterRepository constructs an SQLite backed chapter store.
func NewSQLiteChapterRepository(db *sql.DB) ChapterRepository {
	return &sqliteChapterRepository{db: db}
}

// FindByID returns a chapter with its content.
func (repository *sqliteChapterRepository) FindByID(ctx context.Context, id string) (*Chapter, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = ?
	`,
		schema.Chapters.ID, schema.Chapters.StoryID, schema.Chapters.Title, schema.Chapters.Content,
		schema.Chapters.Order, schema.Chapters.Published, schema.Chapters.CreatedAt, schema.Chapters.UpdatedAt,
		schema.Chapters.Table,
		schema.Chapters.ID,
	)

	chapter, err := scanChapter(repository.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Chapter", "find_chapter")
	}
	return chapter, nil
}

// Create inserts a chapter, resolving a zero Order to the next free slot.
func (repository *sqliteChapterRepository) Create(ctx context.Context, chapter *Chapter) error {
	now := sqlite.Now()
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES (
			?, ?, ?, ?,
			COALESCE(NULLIF(?, 0), (SELECT COALESCE(MAX(%s), 0) + 1 FROM %s WHERE %s = ?)),
			?, ?, ?
		)
		RETURNING %s
	`,
		schema.Chapters.Table,
		schema.Chapters.ID, schema.Chapters.StoryID, schema.Chapters.Title, schema.Chapters.Content,
		schema.Chapters.Order, schema.Chapters.Published, schema.Chapters.CreatedAt, schema.Chapters.UpdatedAt,
		schema.Chapters.Order, schema.Chapters.Table, schema.Chapters.StoryID,
		schema.Chapters.Order,
	)

	err := repository.db.QueryRowContext(ctx, query,
		chapter.ID, chapter.StoryID, chapter.Title, chapter.Content,
		chapter.Order, chapter.StoryID,
		chapter.Published, sqlite.FormatTime(now), sqlite.FormatTime(now),
	).Scan(&chapter.Order)
	if err != nil {
		return chapterWriteError(err, "create_chapter")
	}

	chapter.CreatedAt, chapter.UpdatedAt = now, now
	return nil
}

// Update overwrites the mutable chapter fields.
func (repository *sqliteChapterRepository) Update(ctx context.Context, chapter *Chapter) error {
	now := sqlite.Now()
	query := fmt.Sprintf(`UPDATE %s SET %s = ?, %s = ?, %s = ?, %s = ?, %s = ? WHERE %s = ?`,
		schema.Chapters.Table,
		schema.Chapters.Title, schema.Chapters.Content, schema.Chapters.Order, schema.Chapters.Published,
		schema.Chapters.UpdatedAt,
		schema.Chapters.ID,
	)

	result, err := repository.db.ExecContext(ctx, query,
		chapter.Title, chapter.Content, chapter.Order, chapter.Published, sqlite.FormatTime(now), chapter.ID,
	)
	if err != nil {
		return chapterWriteError(err, "update_chapter")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperr.NotFound("Chapter")
	}

	chapter.UpdatedAt = now
	return nil
}
