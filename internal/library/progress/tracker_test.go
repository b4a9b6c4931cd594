// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stargazer/internal/library/progress"
	"github.com/taibuivan/stargazer/pkg/pointer"
)

const storyID = "0190f3c4-1111-7000-8000-000000000001"

// visit is one step of a reading session: nil opens the default view.
type visit struct {
	requested *int
	want      progress.View
}

/*
TestTracker_Open walks the position state machine through whole sessions on
a single device.
*/
func TestTracker_Open(t *testing.T) {
	tests := []struct {
		name   string
		visits []visit
	}{
		{
			name: "first default view stores nothing",
			visits: []visit{
				{nil, progress.View{DisplayIndex: 0, ActiveIndex: 0, Stored: progress.NoPosition()}},
				{nil, progress.View{DisplayIndex: 0, ActiveIndex: 0, Stored: progress.NoPosition()}},
			},
		},
		{
			name: "explicit chapter then default view offers resume",
			visits: []visit{
				{pointer.To(2), progress.View{DisplayIndex: 2, ActiveIndex: 2, Stored: progress.At(2)}},
				{nil, progress.View{DisplayIndex: 0, ActiveIndex: 2, Stored: progress.At(2), ShowResume: true}},
			},
		},
		{
			name: "default view keeps the stored position",
			visits: []visit{
				{pointer.To(3), progress.View{DisplayIndex: 3, ActiveIndex: 3, Stored: progress.At(3)}},
				{nil, progress.View{DisplayIndex: 0, ActiveIndex: 3, Stored: progress.At(3), ShowResume: true}},
				{nil, progress.View{DisplayIndex: 0, ActiveIndex: 3, Stored: progress.At(3), ShowResume: true}},
			},
		},
		{
			name: "going back overwrites",
			visits: []visit{
				{pointer.To(4), progress.View{DisplayIndex: 4, ActiveIndex: 4, Stored: progress.At(4)}},
				{pointer.To(1), progress.View{DisplayIndex: 1, ActiveIndex: 1, Stored: progress.At(1)}},
				{nil, progress.View{DisplayIndex: 0, ActiveIndex: 1, Stored: progress.At(1), ShowResume: true}},
			},
		},
		{
			name: "first chapter stored never offers resume",
			visits: []visit{
				{pointer.To(0), progress.View{DisplayIndex: 0, ActiveIndex: 0, Stored: progress.At(0)}},
				{nil, progress.View{DisplayIndex: 0, ActiveIndex: 0, Stored: progress.At(0)}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			tracker := progress.NewTracker(progress.NewMemoryStorage().ForDevice("device-1"))

			for i, step := range tt.visits {
				got := tracker.Open(ctx, progress.OpenRequest{StoryID: storyID, Requested: step.requested, ChapterCount: 10})
				assert.Equal(t, step.want, got, "visit %d", i)
			}
		})
	}
}

/*
TestShouldResume checks that resume only ever points forward.
*/
func TestShouldResume(t *testing.T) {
	tests := []struct {
		stored  progress.Position
		display int
		want    bool
	}{
		{progress.NoPosition(), 0, false},
		{progress.At(0), 0, false},
		{progress.At(3), 0, true},
		{progress.At(3), 3, false},
		{progress.At(3), 5, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, progress.ShouldResume(tt.stored, tt.display), "stored=%+v display=%d", tt.stored, tt.display)
	}
}

type failingStore struct{ writes int }

func (s *failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}

func (s *failingStore) Set(context.Context, string, string) error {
	s.writes++
	return errors.New("storage unavailable")
}

/*
TestTracker_DegradedStorage checks that broken, missing or garbage storage
reads as NoPosition while the requested chapter is still displayed.
*/
func TestTracker_DegradedStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("failing", func(t *testing.T) {
		store := &failingStore{}
		tracker := progress.NewTracker(store)

		view := tracker.Open(ctx, progress.OpenRequest{StoryID: storyID, Requested: pointer.To(2), ChapterCount: 5})
		assert.Equal(t, 2, view.DisplayIndex)
		assert.Equal(t, 1, store.writes)

		view = tracker.Open(ctx, progress.OpenRequest{StoryID: storyID, ChapterCount: 5})
		assert.Equal(t, progress.View{Stored: progress.NoPosition()}, view)
	})

	t.Run("disabled", func(t *testing.T) {
		tracker := progress.NewTracker(nil)
		view := tracker.Open(ctx, progress.OpenRequest{StoryID: storyID, Requested: pointer.To(1), ChapterCount: 5})
		assert.Equal(t, 1, view.DisplayIndex)
		assert.Equal(t, progress.NoPosition(), tracker.Load(ctx, storyID))
	})

	t.Run("unparsable", func(t *testing.T) {
		store := progress.NewMemoryStorage().ForDevice("device-1")
		for _, raw := range []string{"abc", "-1", "", "1.5"} {
			require.NoError(t, store.Set(ctx, progress.Key(storyID), raw))
			assert.Equal(t, progress.NoPosition(), progress.NewTracker(store).Load(ctx, storyID), "raw=%q", raw)
		}
	})

	t.Run("beyond the last chapter", func(t *testing.T) {
		store := progress.NewMemoryStorage().ForDevice("device-1")
		require.NoError(t, store.Set(ctx, progress.Key(storyID), "7"))

		view := progress.NewTracker(store).Open(ctx, progress.OpenRequest{StoryID: storyID, ChapterCount: 3})
		assert.Equal(t, progress.View{Stored: progress.NoPosition()}, view)
	})
}

/*
TestMemoryStorage_DeviceScoping checks that devices and stories never see
each other's positions.
*/
func TestMemoryStorage_DeviceScoping(t *testing.T) {
	ctx := context.Background()
	storage := progress.NewMemoryStorage()
	otherStory := "0190f3c4-1111-7000-8000-000000000002"

	phone := progress.NewTracker(storage.ForDevice("phone"))
	laptop := progress.NewTracker(storage.ForDevice("laptop"))

	phone.Open(ctx, progress.OpenRequest{StoryID: storyID, Requested: pointer.To(4)})

	assert.Equal(t, progress.At(4), phone.Load(ctx, storyID))
	assert.Equal(t, progress.NoPosition(), phone.Load(ctx, otherStory))
	assert.Equal(t, progress.NoPosition(), laptop.Load(ctx, storyID))

	// Requests without a usable device id remember nothing.
	for _, deviceID := range []string{"", "has space", "device:*"} {
		anonymous := progress.NewTracker(storage.ForDevice(deviceID))
		anonymous.Open(ctx, progress.OpenRequest{StoryID: storyID, Requested: pointer.To(2)})
		assert.Equal(t, progress.NoPosition(), anonymous.Load(ctx, storyID), "device=%q", deviceID)
	}
}
