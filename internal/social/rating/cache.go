// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/stargazer/internal/platform/constants"
)

// redisCache implements [AggregateCache] as one hash per story plus a
// version counter that every rating bumps.
type redisCache struct {
	client     redis.UniversalClient
	ttl        time.Duration
	versionTTL time.Duration
}

// NewRedisCache stores aggregates under "rating:aggregate:<storyID>" and the
// version under "rating:aggregate:<storyID>:version".
func NewRedisCache(client redis.UniversalClient) AggregateCache {
	return &redisCache{
		client:     client,
		ttl:        constants.RatingAggregateTTL,
		versionTTL: constants.RatingVersionTTL,
	}
}

const (
	fieldAverage = "avg"
	fieldCount   = "count"
)

func (cache *redisCache) key(storyID string) string {
	return constants.RedisPrefixRatingAggregate + storyID
}

func (cache *redisCache) versionKey(storyID string) string {
	return constants.RedisPrefixRatingAggregate + storyID + constants.RedisSuffixRatingVersion
}

func (cache *redisCache) Get(ctx context.Context, storyID string) (Aggregate, bool, error) {
	values, err := cache.client.HGetAll(ctx, cache.key(storyID)).Result()
	if errors.Is(err, redis.Nil) || (err == nil && len(values) == 0) {
		return Aggregate{}, false, nil
	}
	if err != nil {
		return Aggregate{}, false, fmt.Errorf("rating cache: get: %w", err)
	}

	average, errAverage := strconv.ParseFloat(values[fieldAverage], 64)
	count, errCount := strconv.Atoi(values[fieldCount])
	if errAverage != nil || errCount != nil {
		return Aggregate{}, false, nil
	}
	return Aggregate{Average: average, Count: count}, true, nil
}

func (cache *redisCache) Version(ctx context.Context, storyID string) (int64, error) {
	version, err := readVersion(ctx, cache.client, cache.versionKey(storyID))
	if err != nil {
		return 0, fmt.Errorf("rating cache: version: %w", err)
	}
	return version, nil
}

/*
Set stores the aggregate only while the story's version still equals
version. The version key is watched, so a rating that lands between the
check and the write aborts the transaction instead of caching a stale value.
*/
func (cache *redisCache) Set(ctx context.Context, storyID string, aggregate Aggregate, version int64) error {
	key := cache.key(storyID)
	versionKey := cache.versionKey(storyID)

	err := cache.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, versionKey)
		if err != nil {
			return err
		}
		if current != version {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key,
				fieldAverage, strconv.FormatFloat(aggregate.Average, 'f', -1, 64),
				fieldCount, strconv.Itoa(aggregate.Count),
			)
			pipe.Expire(ctx, key, cache.ttl)
			return nil
		})
		return err
	}, versionKey)

	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("rating cache: set: %w", err)
	}
	return nil
}

// Invalidate bumps the version and drops the cached hash in one transaction.
func (cache *redisCache) Invalidate(ctx context.Context, storyID string) error {
	versionKey := cache.versionKey(storyID)

	_, err := cache.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		pipe.Expire(ctx, versionKey, cache.versionTTL)
		pipe.Del(ctx, cache.key(storyID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("rating cache: invalidate: %w", err)
	}
	return nil
}

// readVersion treats a missing counter as version zero.
func readVersion(ctx context.Context, client redis.Cmdable, key string) (int64, error) {
	version, err := client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}
