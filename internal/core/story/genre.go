// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import (
	"slices"
	"sort"

	"github.com/taibuivan/stargazer/pkg/slice"
	"github.com/taibuivan/stargazer/pkg/slug"
)

// # Genre Vocabulary

// The catalog stores genres as opaque labels and never rejects unknown ones.
// This vocabulary only drives the genre picker and content warnings.

const (
	warningDisturbing = "This content contains sensitive themes that may be disturbing to some readers. Viewer discretion is advised."
	warningMature     = "This content is intended for mature audiences only (18+)."
)

// Genre is one selectable label.
type Genre struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Sensitive bool   `json:"sensitive"`
	Warning   string `json:"warning,omitempty"`
}

// GenreCategory groups related genres for display.
type GenreCategory struct {
	Name   string  `json:"name"`
	Slug   string  `json:"slug"`
	Genres []Genre `json:"genres"`
}

var genreCategories = []struct {
	name   string
	genres []string
}{
	{"Romance", []string{
		"Contemporary Romance", "Historical Romance", "Paranormal Romance", "Romantic Suspense",
		"RomCom", "Billionaire Romance", "Dark Romance", "Fantasy Romance", "Sci-Fi Romance",
		"Clean Romance", "Erotic Romance (18+)", "LGBTQ+ Romance", "Harem/Reverse Harem",
		"Office Romance", "Enemies to Lovers", "Friends to Lovers", "Fake Relationship",
		"Second Chance", "Slow Burn", "Forbidden Love",
	}},
	{"Fantasy", []string{
		"High Fantasy", "Urban Fantasy", "Dark Fantasy", "Epic Fantasy", "Progression Fantasy",
		"LitRPG", "Isekai", "Xianxia/Wuxia", "Magical Realism", "Mythology", "Fairy Tales",
		"Sword and Sorcery", "Grimdark", "Low Fantasy", "Arthurian", "Gaslamp Fantasy",
	}},
	{"Sci-Fi", []string{
		"Space Opera", "Cyberpunk", "Steampunk", "Dystopian", "Post-Apocalyptic", "Hard Sci-Fi",
		"Soft Sci-Fi", "Time Travel", "Aliens", "Artificial Intelligence", "Military Sci-Fi",
		"Space Western", "Biopunk", "Dieselpunk", "Solarpunk",
	}},
	{"Thriller & Mystery", []string{
		"Psychological Thriller", "Crime Thriller", "Legal Thriller", "Techno-Thriller",
		"Cozy Mystery", "Noir", "Hardboiled", "Police Procedural", "Espionage",
		"Supernatural Mystery", "Whodunit", "Historical Mystery",
	}},
	{"Horror", []string{
		"Supernatural Horror", "Psychological Horror", "Slasher", "Body Horror", "Gothic Horror",
		"Cosmic Horror", "Survival Horror", "Zombie Apocalypse", "Ghost Stories", "Occult",
	}},
	{"Fiction & Literature", []string{
		"Literary Fiction", "Historical Fiction", "Women's Fiction", "Contemporary Fiction",
		"Satire", "Tragedy", "Philosophy", "Religious/Spiritual", "Short Stories", "Flash Fiction",
	}},
	{"Young Adult (YA)", []string{
		"YA Fantasy", "YA Sci-Fi", "YA Romance", "YA Contemporary", "Coming of Age",
		"School Life", "Teen Drama",
	}},
	{"Action & Adventure", []string{
		"Action", "Adventure", "Martial Arts", "War/Military", "Spy", "Survival",
		"Treasure Hunt", "Western",
	}},
	{"Mature & Specialized (18+)", []string{
		"Mature (18+)", "Erotica", "Dark Content", "Smut", "Taboo", "Adult Fiction",
		"Rape", "Suicide", "Self-Harm", "Abuse", "Trauma", "Incest", "Violence", "Gore",
	}},
	{"Non-Fiction", []string{
		"Memoir", "Biography", "Self-Help", "True Crime", "History", "Science",
		"Travel", "Cooking", "Art", "Poetry",
	}},
}

var sensitiveGenres = []string{
	"Rape", "Suicide", "Self-Harm", "Abuse", "Trauma", "Incest", "Gore",
	"Erotica", "Smut", "Taboo", "Mature (18+)", "Dark Content", "Violence",
}

// IsSensitiveGenre reports whether genre is flagged as sensitive.
func IsSensitiveGenre(genre string) bool {
	return slices.Contains(sensitiveGenres, genre)
}

// GenreWarning returns the content warning for genre, or "" if none applies.
func GenreWarning(genre string) string {
	switch genre {
	case "Rape", "Suicide", "Self-Harm", "Abuse", "Incest":
		return warningDisturbing
	case "Erotica", "Smut", "Mature (18+)":
		return warningMature
	default:
		return ""
	}
}

// ContentWarnings returns the distinct warnings raised by genres, in a stable order.
func ContentWarnings(genres []string) []string {
	var warnings []string
	for _, genre := range genres {
		if warning := GenreWarning(genre); warning != "" && !slices.Contains(warnings, warning) {
			warnings = append(warnings, warning)
		}
	}
	sort.Strings(warnings)
	return warnings
}

// GenreCategories returns the full vocabulary with slugs and warnings.
func GenreCategories() []GenreCategory {
	categories := make([]GenreCategory, 0, len(genreCategories))
	for _, category := range genreCategories {
		categories = append(categories, GenreCategory{
			Name: category.name,
			Slug: slug.From(category.name),
			Genres: slice.Map(category.genres, func(name string) Genre {
				return Genre{
					Name:      name,
					Slug:      slug.From(name),
					Sensitive: IsSensitiveGenre(name),
					Warning:   GenreWarning(name),
				}
			}),
		})
	}
	return categories
}

// AllGenres returns every genre name in alphabetical order.
func AllGenres() []string {
	var names []string
	for _, category := range genreCategories {
		names = append(names, category.genres...)
	}
	sort.Strings(names)
	return names
}
