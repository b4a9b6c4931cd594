// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import "context"

// Repository persists profiles.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Profile, error)
	FindByUsername(ctx context.Context, username string) (*Profile, error)

	// Upsert creates the profile or replaces every field of the existing one.
	// A username held by another profile is CONFLICT.
	Upsert(ctx context.Context, profile *Profile) error
}
