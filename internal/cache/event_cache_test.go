package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tickethub/reservation-service/internal/models"
)

// With no Redis client configured the cache must behave as an always-miss
// no-op rather than fail.
func TestEventCache_NilClientDegrades(t *testing.T) {
	c := NewEventCache(nil, 0)
	ctx := context.Background()

	event, ok := c.Get(ctx, 1)
	assert.False(t, ok)
	assert.Nil(t, event)

	c.Set(ctx, &models.Event{ID: 1, Name: "noop"})
	c.Invalidate(ctx, 1)

	_, ok = c.Get(ctx, 1)
	assert.False(t, ok)
}

func TestEventCache_NilReceiver(t *testing.T) {
	var c *EventCache
	ctx := context.Background()

	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)
	c.Set(ctx, &models.Event{ID: 1})
	c.Invalidate(ctx, 1)
}
