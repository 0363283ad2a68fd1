// Package cache holds TTL-bounded immutable snapshots of the tabular
// sources. Each user interaction reads the current snapshot; a snapshot
// older than the TTL is reloaded on demand, with concurrent reloads
// collapsed into a single fetch.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/marambaia/drawdex/pkg/logging"
)

// LoadFunc produces a fresh snapshot.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Cache serves an immutable snapshot of type T, refreshing it when older
// than the TTL. A failed refresh falls back to the previous snapshot when
// one exists, so transient source outages only surface on first load.
type Cache[T any] struct {
	name   string
	ttl    time.Duration
	load   LoadFunc[T]
	logger *logging.Logger
	clock  func() time.Time

	mu        sync.RWMutex
	value     T
	fetchedAt time.Time
	loaded    bool

	group singleflight.Group
}

// New creates a cache around the given loader.
func New[T any](name string, ttl time.Duration, load LoadFunc[T], logger *logging.Logger) *Cache[T] {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Cache[T]{
		name:   name,
		ttl:    ttl,
		load:   load,
		logger: logger,
		clock:  time.Now,
	}
}

// Get returns the current snapshot, refreshing it first when stale.
func (c *Cache[T]) Get(ctx context.Context) (T, error) {
	c.mu.RLock()
	if c.loaded && c.clock().Sub(c.fetchedAt) <= c.ttl {
		value := c.value
		c.mu.RUnlock()
		return value, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.group.Do(c.name, func() (any, error) {
		// Another caller may have refreshed while we waited on the group.
		c.mu.RLock()
		if c.loaded && c.clock().Sub(c.fetchedAt) <= c.ttl {
			value := c.value
			c.mu.RUnlock()
			return value, nil
		}
		c.mu.RUnlock()

		started := time.Now()
		fresh, err := c.load(ctx)
		metricRefreshDuration.WithLabelValues(c.name).Observe(time.Since(started).Seconds())
		if err != nil {
			c.mu.RLock()
			stale, hasStale := c.value, c.loaded
			c.mu.RUnlock()
			if hasStale {
				metricRefreshTotal.WithLabelValues(c.name, "stale").Inc()
				c.logger.Warn(logging.CategoryCache, "refresh_failed",
					"serving stale snapshot", map[string]any{
						"cache": c.name,
						"error": err.Error(),
					})
				return stale, nil
			}
			metricRefreshTotal.WithLabelValues(c.name, "error").Inc()
			return nil, err
		}
		metricRefreshTotal.WithLabelValues(c.name, "success").Inc()

		c.mu.Lock()
		c.value = fresh
		c.fetchedAt = c.clock()
		c.loaded = true
		c.mu.Unlock()

		c.logger.Info(logging.CategoryCache, "refreshed", "", map[string]any{
			"cache": c.name,
		})
		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// Invalidate forces the next Get to reload.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	c.fetchedAt = time.Time{}
	c.loaded = false
	c.mu.Unlock()
}
