// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"context"
	"log/slog"

	"github.com/taibuivan/stargazer/internal/platform/apperr"
	"github.com/taibuivan/stargazer/internal/platform/ctxutil"
	"github.com/taibuivan/stargazer/internal/platform/identity"
	"github.com/taibuivan/stargazer/internal/platform/validate"
	"github.com/taibuivan/stargazer/pkg/uuid"
)

// Service is the rating aggregator.
type Service struct {
	repo  Repository
	cache AggregateCache
}

// NewService constructs a [Service]. cache may be nil.
func NewService(repo Repository, cache AggregateCache) *Service {
	return &Service{repo: repo, cache: cache}
}

/*
GetAggregate returns the average and count of a story's ratings.

Description: A cached value is served when present. Cache failures are
logged and fall through to the store; they never fail the read. A fill is
skipped when a rating landed while the aggregate was being computed.
*/
func (service *Service) GetAggregate(context context.Context, storyID string) (Aggregate, error) {
	if !validate.IsUUID(storyID) {
		return Aggregate{}, nil
	}

	logger := ctxutil.GetLogger(context)

	if service.cache == nil {
		return service.repo.Aggregate(context, storyID)
	}

	cached, found, err := service.cache.Get(context, storyID)
	if err != nil {
		logger.Warn("rating_cache_read_failed", slog.String("story_id", storyID), slog.Any("error", err))
	}
	if found {
		return cached, nil
	}

	// The version is taken before the store read so a rating that commits
	// after the read makes the fill below a no-op.
	version, versionErr := service.cache.Version(context, storyID)
	if versionErr != nil {
		logger.Warn("rating_cache_read_failed", slog.String("story_id", storyID), slog.Any("error", versionErr))
	}

	aggregate, err := service.repo.Aggregate(context, storyID)
	if err != nil {
		return Aggregate{}, err
	}

	if versionErr == nil {
		if err := service.cache.Set(context, storyID, aggregate, version); err != nil {
			logger.Warn("rating_cache_write_failed", slog.String("story_id", storyID), slog.Any("error", err))
		}
	}
	return aggregate, nil
}

/*
Rate records the caller's score for a story, replacing any earlier one.

Description: Anonymous callers and scores outside [MinScore, MaxScore] are
rejected before the store is touched.
*/
func (service *Service) Rate(context context.Context, who identity.Identity, storyID string, value int) error {
	if who.IsAnonymous() {
		return apperr.Unauthorized("Sign in to rate stories")
	}

	validator := &validate.Validator{}
	validator.Range(FieldValue, value, MinScore, MaxScore)
	if err := validator.Err(); err != nil {
		return err
	}

	if !validate.IsUUID(storyID) {
		return apperr.NotFound("Story")
	}

	rating := &Rating{
		ID:      uuid.New(),
		UserID:  who.UserID(),
		StoryID: storyID,
		Score:   value,
	}
	if err := service.repo.Upsert(context, rating); err != nil {
		return err
	}

	logger := ctxutil.GetLogger(context)
	logger.Info("rating_submitted",
		slog.String("story_id", storyID),
		slog.String("user_id", rating.UserID),
		slog.Int("rating", value),
	)

	if service.cache != nil {
		if err := service.cache.Invalidate(context, storyID); err != nil {
			logger.Warn("rating_cache_invalidate_failed", slog.String("story_id", storyID), slog.Any("error", err))
		}
	}
	return nil
}

// GetMine returns the caller's score, or nil when anonymous or never rated.
func (service *Service) GetMine(context context.Context, who identity.Identity, storyID string) (*int, error) {
	if who.IsAnonymous() || !validate.IsUUID(storyID) {
		return nil, nil
	}
	return service.repo.FindScore(context, who.UserID(), storyID)
}

// RefreshSummaries recomputes the rating columns shown in listings.
func (service *Service) RefreshSummaries(context context.Context) error {
	updated, err := service.repo.RefreshSummaries(context)
	if err != nil {
		return err
	}
	ctxutil.GetLogger(context).Info("rating_summaries_refreshed", slog.Int64("updated", updated))
	return nil
}
