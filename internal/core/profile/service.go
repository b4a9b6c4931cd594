// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/taibuivan/stargazer/internal/core/story"
	"github.com/taibuivan/stargazer/internal/platform/apperr"
	"github.com/taibuivan/stargazer/internal/platform/ctxutil"
	"github.com/taibuivan/stargazer/internal/platform/identity"
	"github.com/taibuivan/stargazer/internal/platform/validate"
	"github.com/taibuivan/stargazer/pkg/pointer"
	"github.com/taibuivan/stargazer/pkg/slice"
	"github.com/taibuivan/stargazer/pkg/uuid"
)

// StatsSource counts an author's works.
type StatsSource interface {
	CountWorks(ctx context.Context, userID string) (story.Stats, error)
}

// Service manages author profiles.
type Service struct {
	repo  Repository
	stats StatsSource
}

// NewService constructs a [Service].
func NewService(repo Repository, stats StatsSource) *Service {
	return &Service{repo: repo, stats: stats}
}

/*
GetProfile returns the profile of username as viewer may see it.

Description: Private sections and links are removed unless viewer owns the
profile. Stats are attached when the owner shares them or is the viewer;
a failure to count is logged and the stats are left out.
*/
func (service *Service) GetProfile(context context.Context, viewer identity.Identity, username string) (*Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.NotFound("Profile")
	}

	profile, err := service.repo.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	owner := viewer.Owns(profile.ID)
	if !owner {
		profile.CustomSections = slice.Filter(profile.CustomSections, func(section Section) bool { return section.IsPublic })
		profile.SocialLinks = slice.Filter(profile.SocialLinks, func(link SocialLink) bool { return link.IsPublic })
	}

	if owner || profile.Privacy.ShowStats {
		service.attachStats(context, profile)
	}
	return finish(profile), nil
}

// GetCurrentProfile returns the caller's own profile, or nil when the caller
// is anonymous or has not saved a profile yet.
func (service *Service) GetCurrentProfile(context context.Context, who identity.Identity) (*Profile, error) {
	if who.IsAnonymous() {
		return nil, nil
	}

	profile, err := service.repo.FindByID(context, who.UserID())
	if apperr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	service.attachStats(context, profile)
	return finish(profile), nil
}

/*
UpdateProfile creates the caller's profile or merges patch into it.

Description: Fields left out of patch keep their stored value. The merged
result is trimmed and validated before any store call, so the first save
must name a username. New sections and links default to public and a new
profile shares its stats. A username held by someone else is CONFLICT.
*/
func (service *Service) UpdateProfile(context context.Context, who identity.Identity, patch Patch) (*Profile, error) {
	if who.IsAnonymous() {
		return nil, apperr.Unauthorized("Sign in to edit your profile")
	}

	stored, err := service.repo.FindByID(context, who.UserID())
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	merged := draftOf(stored)
	merged.apply(patch)
	if err := merged.Validate(); err != nil {
		return nil, validate.FromOzzo(err)
	}

	profile := &Profile{
		ID:          who.UserID(),
		Username:    merged.Username,
		DisplayName: merged.DisplayName,
		AvatarURL:   merged.AvatarURL,
		BannerURL:   merged.BannerURL,
		Website:     merged.Website,
		Bio:         merged.Bio,
		CustomSections: slice.Map(merged.CustomSections, func(section SectionInput) Section {
			id := strings.TrimSpace(section.ID)
			if id == "" {
				id = uuid.New()
			}
			return Section{
				ID:       id,
				Title:    section.Title,
				Content:  section.Content,
				Order:    section.Order,
				IsPublic: pointer.Fallback(section.IsPublic, true),
			}
		}),
		SocialLinks: slice.Map(merged.SocialLinks, func(link LinkInput) SocialLink {
			return SocialLink{
				Platform: link.Platform,
				URL:      link.URL,
				IsPublic: pointer.Fallback(link.IsPublic, true),
			}
		}),
		Privacy: Privacy{ShowStats: merged.ShowStats},
	}

	finish(profile)
	if err := service.repo.Upsert(context, profile); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("profile_updated",
		slog.String("user_id", profile.ID),
		slog.String("username", profile.Username),
	)

	service.attachStats(context, profile)
	return profile, nil
}

// # Internal Helpers

func (service *Service) attachStats(context context.Context, profile *Profile) {
	if service.stats == nil {
		return
	}

	stats, err := service.stats.CountWorks(context, profile.ID)
	if err != nil {
		ctxutil.GetLogger(context).Warn("profile_stats_failed",
			slog.String("user_id", profile.ID),
			slog.Any("error", err),
		)
		return
	}
	profile.Stats = &stats
}

// finish gives a profile non-nil lists with sections sorted by order.
func finish(profile *Profile) *Profile {
	if profile.CustomSections == nil {
		profile.CustomSections = []Section{}
	}
	if profile.SocialLinks == nil {
		profile.SocialLinks = []SocialLink{}
	}
	slices.SortStableFunc(profile.CustomSections, func(a, b Section) int {
		return a.Order - b.Order
	})
	return profile
}
