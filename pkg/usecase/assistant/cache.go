package assistant

import (
	"context"
	"sync"

	"github.com/m-mizutani/myna/pkg/adapter"
	"github.com/m-mizutani/myna/pkg/model"
)

// Cache is a read-through cache of the assistant snapshot, shared by every
// dashboard surface that renders assistant data. Get serves the held copy
// when present; Fetch always goes to the service and repopulates the cache.
type Cache struct {
	svc adapter.Assistant
	id  model.AssistantID

	mu       sync.RWMutex
	snapshot *model.AssistantSnapshot
}

// NewCache creates a cache bound to one assistant
func NewCache(svc adapter.Assistant, id model.AssistantID) *Cache {
	return &Cache{svc: svc, id: id}
}

// Get returns the cached snapshot, fetching from the service on a miss
func (c *Cache) Get(ctx context.Context) (*model.AssistantSnapshot, error) {
	c.mu.RLock()
	snapshot := c.snapshot
	c.mu.RUnlock()

	if snapshot != nil {
		return snapshot, nil
	}
	return c.Fetch(ctx)
}

// Fetch retrieves a fresh snapshot from the service, bypassing the cached
// copy, and stores the result.
func (c *Cache) Fetch(ctx context.Context) (*model.AssistantSnapshot, error) {
	snapshot, err := c.svc.GetAssistant(ctx, c.id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot = snapshot
	c.mu.Unlock()

	return snapshot, nil
}

// Peek returns the cached snapshot without any network access, or nil
func (c *Cache) Peek() *model.AssistantSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Invalidate drops the cached snapshot so the next Get refetches
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
}
