// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ProfilesTable represents the 'profiles' table
type ProfilesTable struct {
	Table           string
	ID              string
	Username        string
	DisplayName     string
	AvatarURL       string
	BannerURL       string
	Website         string
	Bio             string
	CustomSections  string
	SocialLinks     string
	PrivacySettings string
	CreatedAt       string
	UpdatedAt       string
}

// Profiles is the schema definition for profiles
var Profiles = ProfilesTable{
	Table:           "profiles",
	ID:              "id",
	Username:        "username",
	DisplayName:     "display_name",
	AvatarURL:       "avatar_url",
	BannerURL:       "banner_url",
	Website:         "website",
	Bio:             "bio",
	CustomSections:  "custom_sections",
	SocialLinks:     "social_links",
	PrivacySettings: "privacy_settings",
	CreatedAt:       "created_at",
	UpdatedAt:       "updated_at",
}
