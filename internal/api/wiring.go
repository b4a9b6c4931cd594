// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/stargazer/internal/core/profile"
	"github.com/taibuivan/stargazer/internal/core/story"
	"github.com/taibuivan/stargazer/internal/library/progress"
	"github.com/taibuivan/stargazer/internal/social/bookmark"
	"github.com/taibuivan/stargazer/internal/social/comment"
	"github.com/taibuivan/stargazer/internal/social/rating"
)

// # Entity Store

// Stores bundles one repository per collection of a single backend.
type Stores struct {
	Stories   story.StoryRepository
	Chapters  story.ChapterRepository
	Ratings   rating.Repository
	Bookmarks bookmark.Repository
	Comments  comment.Repository
	Profiles  profile.Repository
}

// PostgresStores returns the PostgreSQL implementation of every repository.
func PostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Stories:   story.NewPostgresStoryRepository(pool),
		Chapters:  story.NewPostgresChapterRepository(pool),
		Ratings:   rating.NewPostgresRepository(pool),
		Bookmarks: bookmark.NewPostgresRepository(pool),
		Comments:  comment.NewPostgresRepository(pool),
		Profiles:  profile.NewPostgresRepository(pool),
	}
}

// SQLiteStores returns the embedded SQLite implementation of every repository.
func SQLiteStores(db *sql.DB) Stores {
	return Stores{
		Stories:   story.NewSQLiteStoryRepository(db),
		Chapters:  story.NewSQLiteChapterRepository(db),
		Ratings:   rating.NewSQLiteRepository(db),
		Bookmarks: bookmark.NewSQLiteRepository(db),
		Comments:  comment.NewSQLiteRepository(db),
		Profiles:  profile.NewSQLiteRepository(db),
	}
}

// # Services

// Services holds the domain services built on one [Stores].
type Services struct {
	Story    *story.Service
	Rating   *rating.Service
	Bookmark *bookmark.Service
	Comment  *comment.Service
	Profile  *profile.Service
	Reader   *progress.Reader
}

// NewServices constructs every domain service.
//
// ratingCache may be nil to disable aggregate caching. devices holds the
// per-device reading positions.
func NewServices(stores Stores, ratingCache rating.AggregateCache, devices progress.DeviceStorage) *Services {
	stories := story.NewService(stores.Stories, stores.Chapters)

	return &Services{
		Story:    stories,
		Rating:   rating.NewService(stores.Ratings, ratingCache),
		Bookmark: bookmark.NewService(stores.Bookmarks, stories),
		Comment:  comment.NewService(stores.Comments),
		Profile:  profile.NewService(stores.Profiles, stories),
		Reader:   progress.NewReader(stories, devices),
	}
}

// Routes returns the HTTP handlers of every service, ready for [Handlers].
func (services *Services) Routes() []RouteRegistrar {
	return []RouteRegistrar{
		story.NewHandler(services.Story),
		rating.NewHandler(services.Rating),
		bookmark.NewHandler(services.Bookmark),
		comment.NewHandler(services.Comment),
		profile.NewHandler(services.Profile),
		progress.NewHandler(services.Reader),
	}
}
