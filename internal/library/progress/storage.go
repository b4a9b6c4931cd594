// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/stargazer/internal/platform/constants"
)

// DeviceStorage hands out the key-value space of one device.
type DeviceStorage interface {
	// ForDevice returns the storage of deviceID. An empty or malformed id
	// yields storage that remembers nothing.
	ForDevice(deviceID string) KeyValue
}

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidDeviceID reports whether id is usable as a storage namespace.
func ValidDeviceID(id string) bool {
	return deviceIDPattern.MatchString(id)
}

// # Disabled Storage

type noopStore struct{}

func (noopStore) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (noopStore) Set(context.Context, string, string) error          { return nil }

// # Redis Storage

// RedisStorage keeps positions in Redis under "device:<id>:last_read:<storyID>".
type RedisStorage struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStorage constructs a [RedisStorage]. Keys expire after
// [constants.ReadingPositionTTL] without a write.
func NewRedisStorage(client redis.Cmdable) *RedisStorage {
	return &RedisStorage{client: client, ttl: constants.ReadingPositionTTL}
}

// ForDevice implements [DeviceStorage].
func (storage *RedisStorage) ForDevice(deviceID string) KeyValue {
	if !ValidDeviceID(deviceID) {
		return noopStore{}
	}
	return &redisDevice{storage: storage, prefix: constants.RedisPrefixDevice + deviceID + ":"}
}

type redisDevice struct {
	storage *RedisStorage
	prefix  string
}

func (device *redisDevice) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := device.storage.client.Get(ctx, device.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("progress: redis get: %w", err)
	}
	return value, true, nil
}

func (device *redisDevice) Set(ctx context.Context, key, value string) error {
	if err := device.storage.client.Set(ctx, device.prefix+key, value, device.storage.ttl).Err(); err != nil {
		return fmt.Errorf("progress: redis set: %w", err)
	}
	return nil
}

// # In-Memory Storage

// MemoryStorage keeps positions in process memory for single-node setups.
// Entries expire like their Redis counterparts; [MemoryStorage.Prune]
// reclaims them.
type MemoryStorage struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStorage constructs an empty [MemoryStorage].
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		ttl:     constants.ReadingPositionTTL,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// ForDevice implements [DeviceStorage].
func (storage *MemoryStorage) ForDevice(deviceID string) KeyValue {
	if !ValidDeviceID(deviceID) {
		return noopStore{}
	}
	return &memoryDevice{storage: storage, prefix: deviceID + ":"}
}

// Prune drops expired entries and reports how many were removed.
func (storage *MemoryStorage) Prune(context.Context) (int, error) {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	now := storage.now()
	removed := 0
	for key, entry := range storage.entries {
		if !now.Before(entry.expiresAt) {
			delete(storage.entries, key)
			removed++
		}
	}
	return removed, nil
}

type memoryDevice struct {
	storage *MemoryStorage
	prefix  string
}

func (device *memoryDevice) Get(_ context.Context, key string) (string, bool, error) {
	device.storage.mu.Lock()
	defer device.storage.mu.Unlock()

	entry, ok := device.storage.entries[device.prefix+key]
	if !ok || !device.storage.now().Before(entry.expiresAt) {
		return "", false, nil
	}
	return entry.value, true, nil
}

func (device *memoryDevice) Set(_ context.Context, key, value string) error {
	device.storage.mu.Lock()
	defer device.storage.mu.Unlock()

	device.storage.entries[device.prefix+key] = memoryEntry{
		value:     value,
		expiresAt: device.storage.now().Add(device.storage.ttl),
	}
	return nil
}
