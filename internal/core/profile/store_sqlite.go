// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/taibuivan/stargazer/internal/platform/apperr"
	"github.com/taibuivan/stargazer/internal/platform/database/schema"
	"github.com/taibuivan/stargazer/internal/platform/dberr"
	"github.com/taibuivan/stargazer/internal/platform/sqlite"
)

// sqliteRepository implements [Repository] on the embedded store.
type sqliteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository constructs an SQLite backed profile store.
func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (repository *sqliteRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	return repository.findOne(ctx, fmt.Sprintf(" WHERE %s = ?", schema.Profiles.ID), id)
}

func (repository *sqliteRepository) FindByUsername(ctx context.Context, username string) (*Profile, error) {
	return repository.findOne(ctx, fmt.Sprintf(" WHERE %s = ?", schema.Profiles.Username), username)
}

func (repository *sqliteRepository) findOne(ctx context.Context, where string, arg string) (*Profile, error) {
	var profile Profile
	err := repository.db.QueryRowContext(ctx, profileSelect+where, arg).Scan(
		&profile.ID, &profile.Username, &profile.DisplayName,
		&profile.AvatarURL, &profile.BannerURL, &profile.Website, &profile.Bio,
		sqlite.JSON(&profile.CustomSections), sqlite.JSON(&profile.SocialLinks), sqlite.JSON(&profile.Privacy),
		sqlite.Time(&profile.CreatedAt), sqlite.Time(&profile.UpdatedAt),
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Profile", "find_profile")
	}
	return &profile, nil
}

func (repository *sqliteRepository) Upsert(ctx context.Context, profile *Profile) error {
	sections, err := sqlite.EncodeJSON(profile.CustomSections)
	if err != nil {
		return apperr.StoreFailure(err)
	}
	links, err := sqlite.EncodeJSON(profile.SocialLinks)
	if err != nil {
		return apperr.StoreFailure(err)
	}
	privacy, err := json.Marshal(profile.Privacy)
	if err != nil {
		return apperr.StoreFailure(err)
	}

	now := sqlite.FormatTime(sqlite.Now())
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s, %[5]s, %[6]s, %[7]s, %[8]s, %[9]s, %[10]s, %[11]s, %[12]s, %[13]s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (%[2]s) DO UPDATE SET
			%[3]s = excluded.%[3]s, %[4]s = excluded.%[4]s, %[5]s = excluded.%[5]s,
			%[6]s = excluded.%[6]s, %[7]s = excluded.%[7]s, %[8]s = excluded.%[8]s,
			%[9]s = excluded.%[9]s, %[10]s = excluded.%[10]s, %[11]s = excluded.%[11]s,
			%[13]s = excluded.%[13]s
		RETURNING %[12]s, %[13]s
	`,
		schema.Profiles.Table,
		schema.Profiles.ID, schema.Profiles.Username, schema.Profiles.DisplayName,
		schema.Profiles.AvatarURL, schema.Profiles.BannerURL, schema.Profiles.Website, schema.Profiles.Bio,
		schema.Profiles.CustomSections, schema.Profiles.SocialLinks, schema.Profiles.PrivacySettings,
		schema.Profiles.CreatedAt, schema.Profiles.UpdatedAt,
	)

	err = repository.db.QueryRowContext(ctx, query,
		profile.ID, profile.Username, profile.DisplayName,
		profile.AvatarURL, profile.BannerURL, profile.Website, profile.Bio,
		sections, links, string(privacy), now, now,
	).Scan(sqlite.Time(&profile.CreatedAt), sqlite.Time(&profile.UpdatedAt))

	return upsertError(err)
}
