// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/stargazer/internal/platform/apperr"
	"github.com/taibuivan/stargazer/internal/platform/database/schema"
	"github.com/taibuivan/stargazer/internal/platform/dberr"
)

// postgresRepository implements [Repository] using pgx.
// JSONB columns are encoded and decoded by pgx directly.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed profile store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

var profileSelect = fmt.Sprintf(`
	SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
	FROM %s
`,
	schema.Profiles.ID, schema.Profiles.Username, schema.Profiles.DisplayName,
	schema.Profiles.AvatarURL, schema.Profiles.BannerURL, schema.Profiles.Website, schema.Profiles.Bio,
	schema.Profiles.CustomSections, schema.Profiles.SocialLinks, schema.Profiles.PrivacySettings,
	schema.Profiles.CreatedAt, schema.Profiles.UpdatedAt,
	schema.Profiles.Table,
)

func (repository *postgresRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	return repository.findOne(ctx, fmt.Sprintf(" WHERE %s = $1", schema.Profiles.ID), id)
}

func (repository *postgresRepository) FindByUsername(ctx context.Context, username string) (*Profile, error) {
	return repository.findOne(ctx, fmt.Sprintf(" WHERE %s = $1", schema.Profiles.Username), username)
}

func (repository *postgresRepository) findOne(ctx context.Context, where string, arg string) (*Profile, error) {
	var profile Profile
	err := repository.pool.QueryRow(ctx, profileSelect+where, arg).Scan(
		&profile.ID, &profile.Username, &profile.DisplayName,
		&profile.AvatarURL, &profile.BannerURL, &profile.Website, &profile.Bio,
		&profile.CustomSections, &profile.SocialLinks, &profile.Privacy,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Profile", "find_profile")
	}
	return &profile, nil
}

func (repository *postgresRepository) Upsert(ctx context.Context, profile *Profile) error {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s, %[5]s, %[6]s, %[7]s, %[8]s, %[9]s, %[10]s, %[11]s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (%[2]s) DO UPDATE SET
			%[3]s = EXCLUDED.%[3]s, %[4]s = EXCLUDED.%[4]s, %[5]s = EXCLUDED.%[5]s,
			%[6]s = EXCLUDED.%[6]s, %[7]s = EXCLUDED.%[7]s, %[8]s = EXCLUDED.%[8]s,
			%[9]s = EXCLUDED.%[9]s, %[10]s = EXCLUDED.%[10]s, %[11]s = EXCLUDED.%[11]s,
			%[13]s = NOW()
		RETURNING %[12]s, %[13]s
	`,
		schema.Profiles.Table,
		schema.Profiles.ID, schema.Profiles.Username, schema.Profiles.DisplayName,
		schema.Profiles.AvatarURL, schema.Profiles.BannerURL, schema.Profiles.Website, schema.Profiles.Bio,
		schema.Profiles.CustomSections, schema.Profiles.SocialLinks, schema.Profiles.PrivacySettings,
		schema.Profiles.CreatedAt, schema.Profiles.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		profile.ID, profile.Username, profile.DisplayName,
		profile.AvatarURL, profile.BannerURL, profile.Website, profile.Bio,
		profile.CustomSections, profile.SocialLinks, profile.Privacy,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)

	return upsertError(err)
}

// upsertError turns a username collision into a readable CONFLICT.
func upsertError(err error) error {
	if err != nil && dberr.IsUniqueViolation(err) {
		conflict := apperr.Conflict("Username is already taken")
		conflict.Cause = err
		return conflict
	}
	return dberr.Wrap(err, "Profile", "upsert_profile")
}
