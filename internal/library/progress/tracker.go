// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/taibuivan/stargazer/internal/platform/ctxutil"
)

// OpenRequest describes one visit to a story.
type OpenRequest struct {
	StoryID string

	// Requested is the explicitly chosen chapter index, or nil for the
	// story's default view.
	Requested *int

	// ChapterCount bounds stored positions; zero disables the check.
	ChapterCount int
}

// View is what the reader should render.
type View struct {
	// DisplayIndex is the chapter whose content is shown.
	DisplayIndex int `json:"display_index"`

	// ActiveIndex is the chapter highlighted as "current progress".
	ActiveIndex int `json:"active_index"`

	Stored     Position `json:"stored"`
	ShowResume bool     `json:"show_resume"`
}

// Tracker runs the position state machine over one device's storage.
type Tracker struct {
	store KeyValue
}

// NewTracker constructs a [Tracker]. A nil store behaves like disabled
// storage.
func NewTracker(store KeyValue) *Tracker {
	return &Tracker{store: store}
}

/*
Open applies one visit and returns the view to render.

Description:
  - Explicit request C: C is persisted (overwriting) and displayed.
  - Default view: chapter 0 is displayed, nothing is written, and a stored
    position becomes the active index.

Errors never escape: unreadable or unwritable storage behaves as NoPosition.
*/
func (tracker *Tracker) Open(ctx context.Context, request OpenRequest) View {
	if request.Requested != nil {
		requested := *request.Requested
		tracker.save(ctx, request.StoryID, requested)

		stored := At(requested)
		return View{
			DisplayIndex: requested,
			ActiveIndex:  requested,
			Stored:       stored,
			ShowResume:   ShouldResume(stored, requested),
		}
	}

	stored := tracker.Load(ctx, request.StoryID)
	if stored.Valid && request.ChapterCount > 0 && stored.Index >= request.ChapterCount {
		stored = NoPosition()
	}

	view := View{Stored: stored, ShowResume: ShouldResume(stored, 0)}
	if stored.Valid {
		view.ActiveIndex = stored.Index
	}
	return view
}

// Load returns the stored position of a story, or NoPosition.
func (tracker *Tracker) Load(ctx context.Context, storyID string) Position {
	if tracker.store == nil {
		return NoPosition()
	}

	raw, found, err := tracker.store.Get(ctx, Key(storyID))
	if err != nil {
		ctxutil.GetLogger(ctx).Debug("reading_position_read_failed", slog.String("story_id", storyID), slog.Any("error", err))
		return NoPosition()
	}
	if !found {
		return NoPosition()
	}
	return parsePosition(raw)
}

func (tracker *Tracker) save(ctx context.Context, storyID string, index int) {
	if tracker.store == nil {
		return
	}

	if err := tracker.store.Set(ctx, Key(storyID), strconv.Itoa(index)); err != nil {
		ctxutil.GetLogger(ctx).Debug("reading_position_write_failed", slog.String("story_id", storyID), slog.Any("error", err))
	}
}
