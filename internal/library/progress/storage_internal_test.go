// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestMemoryStorage_Expiry checks that idle entries vanish and are pruned.
*/
func TestMemoryStorage_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	storage := NewMemoryStorage()
	storage.now = func() time.Time { return clock }

	device := storage.ForDevice("device-1")
	require.NoError(t, device.Set(ctx, Key("a"), "1"))

	clock = clock.Add(storage.ttl - time.Second)
	require.NoError(t, device.Set(ctx, Key("b"), "2"))

	_, found, err := device.Get(ctx, Key("a"))
	require.NoError(t, err)
	assert.True(t, found)

	clock = clock.Add(time.Second)
	_, found, _ = device.Get(ctx, Key("a"))
	assert.False(t, found)

	removed, err := storage.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	value, found, _ := device.Get(ctx, Key("b"))
	assert.True(t, found)
	assert.Equal(t, "2", value)
}
