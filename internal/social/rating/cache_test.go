// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stargazer/internal/platform/constants"
	"github.com/taibuivan/stargazer/internal/platform/identity"
	"github.com/taibuivan/stargazer/internal/platform/sqlite/sqlitetest"
	"github.com/taibuivan/stargazer/internal/social/rating"
	"github.com/taibuivan/stargazer/pkg/uuid"
)

func newRedisCache(t *testing.T) (rating.AggregateCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return rating.NewRedisCache(client), server
}

/*
TestRedisCache_RoundTrip stores one hash per story with the aggregate TTL.
*/
func TestRedisCache_RoundTrip(t *testing.T) {
	cache, server := newRedisCache(t)
	ctx := context.Background()
	storyID := uuid.New()
	key := constants.RedisPrefixRatingAggregate + storyID

	_, found, err := cache.Get(ctx, storyID)
	require.NoError(t, err)
	assert.False(t, found)

	version, err := cache.Version(ctx, storyID)
	require.NoError(t, err)
	assert.Zero(t, version)

	require.NoError(t, cache.Set(ctx, storyID, rating.Aggregate{Average: 4.5, Count: 2}, version))

	assert.Equal(t, "4.5", server.HGet(key, "avg"))
	assert.Equal(t, "2", server.HGet(key, "count"))
	assert.Equal(t, constants.RatingAggregateTTL, server.TTL(key))

	aggregate, found, err := cache.Get(ctx, storyID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, rating.Aggregate{Average: 4.5, Count: 2}, aggregate)

	server.FastForward(constants.RatingAggregateTTL)
	_, found, err = cache.Get(ctx, storyID)
	require.NoError(t, err)
	assert.False(t, found)
}

/*
TestRedisCache_CorruptHash treats unparsable fields as a miss.
*/
func TestRedisCache_CorruptHash(t *testing.T) {
	cache, server := newRedisCache(t)
	storyID := uuid.New()
	key := constants.RedisPrefixRatingAggregate + storyID

	tests := []struct {
		name   string
		fields []string
	}{
		{"average not a number", []string{"avg", "high", "count", "2"}},
		{"count not a number", []string{"avg", "4", "count", "many"}},
		{"count missing", []string{"avg", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server.Del(key)
			server.HSet(key, tt.fields...)

			_, found, err := cache.Get(context.Background(), storyID)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

/*
TestRedisCache_StaleFill drops a write whose version was overtaken by a rating.
*/
func TestRedisCache_StaleFill(t *testing.T) {
	cache, server := newRedisCache(t)
	ctx := context.Background()
	storyID := uuid.New()
	key := constants.RedisPrefixRatingAggregate + storyID
	versionKey := key + constants.RedisSuffixRatingVersion

	before, err := cache.Version(ctx, storyID)
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(ctx, storyID))
	assert.Equal(t, constants.RatingVersionTTL, server.TTL(versionKey))

	require.NoError(t, cache.Set(ctx, storyID, rating.Aggregate{Average: 1, Count: 1}, before))
	assert.False(t, server.Exists(key))

	after, err := cache.Version(ctx, storyID)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	require.NoError(t, cache.Set(ctx, storyID, rating.Aggregate{Average: 2, Count: 2}, after))
	assert.True(t, server.Exists(key))

	require.NoError(t, cache.Invalidate(ctx, storyID))
	assert.False(t, server.Exists(key))
}

/*
TestRedisCache_Service keeps the shared cache consistent across ratings.
*/
func TestRedisCache_Service(t *testing.T) {
	db := sqlitetest.New(t)
	cache, _ := newRedisCache(t)
	service := rating.NewService(rating.NewSQLiteRepository(db), cache)
	ctx := context.Background()

	storyID := sqlitetest.InsertStory(t, db, uuid.New(), uuid.New(), "Cached")

	tests := []struct {
		name    string
		value   int
		count   int
		average float64
	}{
		{"alice", 4, 1, 4},
		{"bob", 2, 2, 3},
		{"carol", 3, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, service.Rate(ctx, identity.User(uuid.New(), tt.name), storyID, tt.value))

			for range 2 {
				aggregate, err := service.GetAggregate(ctx, storyID)
				require.NoError(t, err)
				assert.Equal(t, tt.count, aggregate.Count)
				assert.InDelta(t, tt.average, aggregate.Average, 1e-9)
			}
		})
	}
}
