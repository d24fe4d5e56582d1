// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/go-json-experiment/json"

	"github.com/go-a2a/a2a-session"
)

// DefaultCacheMaxCost is the default byte budget of a [CachedStore].
const DefaultCacheMaxCost = 64 << 20

// CachedStore is a read-through cache in front of another [Store].
//
// Snapshots are cached in their encoded form, so every Get decodes a private
// copy. Update writes through to the backing store and then refreshes the
// cached entry.
type CachedStore struct {
	next   Store
	cache  *ristretto.Cache[string, []byte]
	ttl    time.Duration
	logger *slog.Logger
}

var _ Store = (*CachedStore)(nil)

// CacheConfig configures a [CachedStore].
type CacheConfig struct {
	// MaxCost is the total size in bytes of cached snapshots.
	MaxCost int64
	// TTL bounds how long a snapshot is served from the cache. Zero means no expiry.
	TTL time.Duration
	// Logger receives cache refresh failures.
	Logger *slog.Logger
}

// NewCachedStore wraps next with a ristretto cache.
func NewCachedStore(next Store, cfg CacheConfig) (*CachedStore, error) {
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = DefaultCacheMaxCost
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: max(cfg.MaxCost/100, 1000),
		MaxCost:     cfg.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &CachedStore{
		next:   next,
		cache:  cache,
		ttl:    cfg.TTL,
		logger: cfg.Logger,
	}, nil
}

// Get returns the cached snapshot of taskID, loading it from the backing
// store on a miss.
func (s *CachedStore) Get(ctx context.Context, taskID string) (*a2a.Task, error) {
	if data, ok := s.cache.Get(taskID); ok {
		var task a2a.Task
		if err := json.Unmarshal(data, &task); err == nil {
			return &task, nil
		}
		s.cache.Del(taskID)
	}

	task, err := s.next.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	s.put(ctx, task)
	return task, nil
}

// Update writes event through to the backing store and refreshes the cache.
func (s *CachedStore) Update(ctx context.Context, event a2a.TaskEvent) error {
	taskID := event.GetTaskID()

	// Drop the entry first: a failed refresh must not leave a stale snapshot.
	s.cache.Del(taskID)
	if err := s.next.Update(ctx, event); err != nil {
		return err
	}

	task, err := s.next.Get(ctx, taskID)
	if err != nil {
		s.logger.WarnContext(ctx, "refresh cached task", slog.String("task_id", taskID), slog.Any("error", err))
		return nil
	}
	s.put(ctx, task)
	return nil
}

func (s *CachedStore) put(ctx context.Context, task *a2a.Task) {
	data, err := json.Marshal(task)
	if err != nil {
		s.logger.WarnContext(ctx, "encode cached task", slog.String("task_id", task.ID), slog.Any("error", err))
		return
	}
	s.cache.SetWithTTL(task.ID, data, int64(len(data)), s.ttl)
	s.cache.Wait()
}

// Close releases the cache. The backing store is left open.
func (s *CachedStore) Close() {
	s.cache.Close()
}
