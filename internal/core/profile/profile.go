// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package profile manages author profiles.

A profile is keyed by the identity's user id and created lazily on the first
save. Custom sections and social links carry a public flag; anyone but the
owner only sees the public ones.
*/
package profile

import (
	"regexp"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/taibuivan/stargazer/internal/core/story"
	"github.com/taibuivan/stargazer/pkg/pointer"
)

// # Domain Entities

// Profile is the public face of an author.
type Profile struct {
	ID             string       `json:"id"`
	Username       string       `json:"username"`
	DisplayName    string       `json:"display_name"`
	AvatarURL      string       `json:"avatar_url"`
	BannerURL      string       `json:"banner_url"`
	Website        string       `json:"website"`
	Bio            string       `json:"bio"`
	CustomSections []Section    `json:"custom_sections"`
	SocialLinks    []SocialLink `json:"social_links"`
	Privacy        Privacy      `json:"privacy_settings"`

	// Stats is attached when the owner shares it, or the owner is looking.
	Stats *story.Stats `json:"stats,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section is a free-form block on the profile page.
type Section struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Order    int    `json:"order"`
	IsPublic bool   `json:"is_public"`
}

// SocialLink points to the author elsewhere.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	IsPublic bool   `json:"is_public"`
}

// Privacy holds the owner's visibility choices.
type Privacy struct {
	ShowStats bool `json:"show_stats"`
}

// # Update Payload

// Patch is a partial profile update. Nil fields keep their stored value; a
// non-nil empty list clears it. The first save must carry a username.
type Patch struct {
	Username       *string         `json:"username"`
	DisplayName    *string         `json:"display_name"`
	AvatarURL      *string         `json:"avatar_url"`
	BannerURL      *string         `json:"banner_url"`
	Website        *string         `json:"website"`
	Bio            *string         `json:"bio"`
	CustomSections *[]SectionInput `json:"custom_sections"`
	SocialLinks    *[]LinkInput    `json:"social_links"`
	Privacy        *PrivacyInput   `json:"privacy_settings"`
}

// draft is the merged profile that gets validated and stored.
type draft struct {
	Username       string         `json:"username"`
	DisplayName    string         `json:"display_name"`
	AvatarURL      string         `json:"avatar_url"`
	BannerURL      string         `json:"banner_url"`
	Website        string         `json:"website"`
	Bio            string         `json:"bio"`
	CustomSections []SectionInput `json:"custom_sections"`
	SocialLinks    []LinkInput    `json:"social_links"`
	ShowStats      bool           `json:"-"`
}

// SectionInput is a section as submitted. A blank ID gets a fresh one.
type SectionInput struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Order    int    `json:"order"`
	IsPublic *bool  `json:"is_public"`
}

// LinkInput is a social link as submitted.
type LinkInput struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	IsPublic *bool  `json:"is_public"`
}

// PrivacyInput is the privacy block as submitted.
type PrivacyInput struct {
	ShowStats *bool `json:"show_stats"`
}

const (
	minUsernameLength    = 3
	maxDisplayNameLength = 50
	maxBioLength         = 2000
	maxSectionTitle      = 100
	maxSectionContent    = 10000
	maxSections          = 20
	maxLinks             = 20
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Validate implements [validation.Validatable].
func (input draft) Validate() error {
	return validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required,
			validation.RuneLength(minUsernameLength, 0),
			validation.Match(usernamePattern).Error("may only contain letters, numbers, underscores and hyphens"),
		),
		validation.Field(&input.DisplayName, validation.RuneLength(0, maxDisplayNameLength)),
		validation.Field(&input.AvatarURL, is.URL),
		validation.Field(&input.BannerURL, is.URL),
		validation.Field(&input.Website, is.URL),
		validation.Field(&input.Bio, validation.RuneLength(0, maxBioLength)),
		validation.Field(&input.CustomSections, validation.Length(0, maxSections)),
		validation.Field(&input.SocialLinks, validation.Length(0, maxLinks)),
	)
}

// Validate implements [validation.Validatable].
func (section SectionInput) Validate() error {
	return validation.ValidateStruct(&section,
		validation.Field(&section.Title, validation.Required, validation.RuneLength(0, maxSectionTitle)),
		validation.Field(&section.Content, validation.RuneLength(0, maxSectionContent)),
	)
}

// Validate implements [validation.Validatable].
func (link LinkInput) Validate() error {
	return validation.ValidateStruct(&link,
		validation.Field(&link.Platform, validation.Required),
		validation.Field(&link.URL, validation.Required, is.URL),
	)
}

// draftOf turns a stored profile into an editable draft. A nil profile
// yields the defaults of a first save.
func draftOf(stored *Profile) draft {
	if stored == nil {
		return draft{ShowStats: true}
	}

	sections := make([]SectionInput, 0, len(stored.CustomSections))
	for _, section := range stored.CustomSections {
		sections = append(sections, SectionInput{
			ID:       section.ID,
			Title:    section.Title,
			Content:  section.Content,
			Order:    section.Order,
			IsPublic: pointer.To(section.IsPublic),
		})
	}

	links := make([]LinkInput, 0, len(stored.SocialLinks))
	for _, link := range stored.SocialLinks {
		links = append(links, LinkInput{Platform: link.Platform, URL: link.URL, IsPublic: pointer.To(link.IsPublic)})
	}

	return draft{
		Username:       stored.Username,
		DisplayName:    stored.DisplayName,
		AvatarURL:      stored.AvatarURL,
		BannerURL:      stored.BannerURL,
		Website:        stored.Website,
		Bio:            stored.Bio,
		CustomSections: sections,
		SocialLinks:    links,
		ShowStats:      stored.Privacy.ShowStats,
	}
}

// apply merges the non-nil fields of patch, trimming free text.
func (input *draft) apply(patch Patch) {
	setTrimmed(&input.Username, patch.Username)
	setTrimmed(&input.DisplayName, patch.DisplayName)
	setTrimmed(&input.AvatarURL, patch.AvatarURL)
	setTrimmed(&input.BannerURL, patch.BannerURL)
	setTrimmed(&input.Website, patch.Website)
	setTrimmed(&input.Bio, patch.Bio)

	if patch.CustomSections != nil {
		input.CustomSections = slices.Clone(*patch.CustomSections)
		for index := range input.CustomSections {
			input.CustomSections[index].Title = strings.TrimSpace(input.CustomSections[index].Title)
		}
	}
	if patch.SocialLinks != nil {
		input.SocialLinks = slices.Clone(*patch.SocialLinks)
		for index := range input.SocialLinks {
			input.SocialLinks[index].Platform = strings.TrimSpace(input.SocialLinks[index].Platform)
			input.SocialLinks[index].URL = strings.TrimSpace(input.SocialLinks[index].URL)
		}
	}
	if patch.Privacy != nil && patch.Privacy.ShowStats != nil {
		input.ShowStats = *patch.Privacy.ShowStats
	}
}

func setTrimmed(target *string, value *string) {
	if value != nil {
		*target = strings.TrimSpace(*value)
	}
}
