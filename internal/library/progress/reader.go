// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"context"
	"log/slog"

	"github.com/taibuivan/stargazer/internal/core/story"
	"github.com/taibuivan/stargazer/internal/platform/apperr"
	"github.com/taibuivan/stargazer/internal/platform/ctxutil"
)

// StoryReader loads a story with its chapter contents.
type StoryReader interface {
	GetStory(ctx context.Context, storyID string) (*story.Story, error)
}

// Reading is the reader page model: the story outline, the chapter being
// displayed and the position view.
type Reading struct {
	Story   *story.Story   `json:"story"`
	Chapter *story.Chapter `json:"chapter"`
	View    View           `json:"view"`
}

// Reader combines the catalog with per-device positions.
type Reader struct {
	stories StoryReader
	devices DeviceStorage
}

// NewReader constructs a [Reader].
func NewReader(stories StoryReader, devices DeviceStorage) *Reader {
	return &Reader{stories: stories, devices: devices}
}

/*
Open resolves one visit to a story on a device.

chapterNumber is the 1-based chapter from the URL, or nil for the default
view. A number outside the story is NOT_FOUND and nothing is persisted.
*/
func (reader *Reader) Open(ctx context.Context, deviceID, storyID string, chapterNumber *int) (*Reading, error) {
	found, err := reader.stories.GetStory(ctx, storyID)
	if err != nil {
		return nil, err
	}

	var requested *int
	if chapterNumber != nil {
		index := *chapterNumber - 1
		if index < 0 || index >= len(found.Chapters) {
			return nil, apperr.NotFound("Chapter")
		}
		requested = &index
	}

	tracker := NewTracker(reader.devices.ForDevice(deviceID))
	view := tracker.Open(ctx, OpenRequest{
		StoryID:      storyID,
		Requested:    requested,
		ChapterCount: len(found.Chapters),
	})

	reading := &Reading{Story: outline(found), View: view}
	if view.DisplayIndex < len(found.Chapters) {
		reading.Chapter = found.Chapters[view.DisplayIndex]
	}

	ctxutil.GetLogger(ctx).Debug("story_opened",
		slog.String("story_id", storyID),
		slog.Int("display_index", view.DisplayIndex),
		slog.Bool("show_resume", view.ShowResume),
	)
	return reading, nil
}

// outline copies a story with its chapters stripped of content.
func outline(source *story.Story) *story.Story {
	copied := *source
	copied.Chapters = make([]*story.Chapter, len(source.Chapters))
	for i, chapter := range source.Chapters {
		stripped := *chapter
		stripped.Content = ""
		copied.Chapters[i] = &stripped
	}
	return &copied
}
