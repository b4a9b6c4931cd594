// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package scheduler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stargazer/internal/platform/scheduler"
)

func newScheduler() *scheduler.Scheduler {
	return scheduler.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestScheduler_Register rejects bad schedules and duplicate names.
*/
func TestScheduler_Register(t *testing.T) {
	s := newScheduler()
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Register(scheduler.Job{Name: "refresh", Schedule: "*/5 * * * *", Run: noop}))
	assert.Error(t, s.Register(scheduler.Job{Name: "refresh", Schedule: "@hourly", Run: noop}))
	assert.Error(t, s.Register(scheduler.Job{Name: "broken", Schedule: "every tuesday", Run: noop}))
}

/*
TestScheduler_RunNow executes a job synchronously and surfaces its error.
*/
func TestScheduler_RunNow(t *testing.T) {
	s := newScheduler()
	var runs atomic.Int32
	boom := errors.New("boom")

	require.NoError(t, s.Register(scheduler.Job{Name: "count", Schedule: "@hourly", Run: func(ctx context.Context) error {
		runs.Add(1)
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	}}))
	require.NoError(t, s.Register(scheduler.Job{Name: "fail", Schedule: "@hourly", Run: func(context.Context) error {
		return boom
	}}))

	require.NoError(t, s.RunNow(context.Background(), "count"))
	assert.Equal(t, int32(1), runs.Load())

	assert.ErrorIs(t, s.RunNow(context.Background(), "fail"), boom)
	assert.ErrorIs(t, s.RunNow(context.Background(), "missing"), scheduler.ErrUnknownJob)
}

/*
TestScheduler_Fires verifies a started scheduler fires on its schedule.
*/
func TestScheduler_Fires(t *testing.T) {
	s := newScheduler()
	fired := make(chan struct{}, 1)

	require.NoError(t, s.Register(scheduler.Job{Name: "tick", Schedule: "@every 1s", Run: func(context.Context) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	}}))

	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Stop(ctx)
	}()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not fire")
	}
}
