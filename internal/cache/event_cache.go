// Package cache provides an optional Redis read-through cache for event
// detail reads. It is a fast path for the read-mostly endpoints only; the
// reservation create path always goes through the locked database read and
// never consults the cache.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tickethub/reservation-service/internal/models"
)

type EventCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewEventCache wraps rdb. A nil client yields a disabled cache: every Get
// misses and Set/Invalidate are no-ops, so callers degrade gracefully when
// Redis is not configured.
func NewEventCache(rdb *redis.Client, ttl time.Duration) *EventCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &EventCache{rdb: rdb, ttl: ttl}
}

func (c *EventCache) key(id uint) string {
	return fmt.Sprintf("event:%d", id)
}

func (c *EventCache) Get(ctx context.Context, id uint) (*models.Event, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	bs, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var event models.Event
	if err := json.Unmarshal(bs, &event); err != nil {
		return nil, false
	}
	return &event, true
}

func (c *EventCache) Set(ctx context.Context, event *models.Event) {
	if c == nil || c.rdb == nil || event == nil {
		return
	}
	bs, err := json.Marshal(event)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, c.key(event.ID), bs, c.ttl).Err()
}

// Invalidate drops the cached copy, called whenever the consumer upserts a
// newer version of the event.
func (c *EventCache) Invalidate(ctx context.Context, id uint) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.key(id)).Err()
}
