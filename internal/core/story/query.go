// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import "strings"

// likeEscaper neutralizes LIKE wildcards so a search term is matched literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a "%term%" LIKE pattern to be used with ESCAPE '\'.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// indexStories maps story ids to their position-independent pointers.
func indexStories(stories []*Story) (map[string]*Story, []string) {
	byID := make(map[string]*Story, len(stories))
	ids := make([]string, 0, len(stories))
	for _, story := range stories {
		byID[story.ID] = story
		ids = append(ids, story.ID)
	}
	return byID, ids
}
