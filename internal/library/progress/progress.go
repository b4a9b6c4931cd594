// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package progress tracks where a device left off in each story.

Positions are best-effort hints kept in a device-scoped key-value store,
never in the entity store. Any storage problem degrades to "no position"
instead of an error, and the reader always gets the chapter it asked for.

# States

  - NoPosition: nothing stored for (device, story).
  - Positioned(i): chapter index i was the last one explicitly opened.

Only an explicit chapter request writes. Opening the default view shows the
first chapter and reports the stored index as the active one, so a reader can
be offered to resume.
*/
package progress

import (
	"context"
	"strconv"
	"strings"
)

// KeyValue is the device-scoped persistence primitive.
type KeyValue interface {
	// Get returns the value and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Position is a stored chapter index. The zero value is NoPosition.
type Position struct {
	Index int  `json:"index"`
	Valid bool `json:"valid"`
}

// NoPosition is the absent position.
func NoPosition() Position {
	return Position{}
}

// At returns the position of chapter index.
func At(index int) Position {
	return Position{Index: index, Valid: true}
}

// keyPrefix is the per-story key convention inside a device namespace.
const keyPrefix = "last_read:"

// Key returns the storage key of a story's position.
func Key(storyID string) string {
	return keyPrefix + storyID
}

// ShouldResume reports whether a reader displaying chapter index display
// should be nudged towards the stored position. It never points backwards.
func ShouldResume(stored Position, display int) bool {
	return stored.Valid && stored.Index > display
}

// parsePosition reads a stored decimal index. Anything else is NoPosition.
func parsePosition(raw string) Position {
	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || index < 0 {
		return NoPosition()
	}
	return At(index)
}
