package memcache

import (
	"sync"
	"time"

	"tripchat/internal/models/response_models"
)

// CatalogCache keeps one short-lived copy of the destination catalog so the
// enricher doesn't refetch it for every turn. Staleness is bounded by the TTL;
// id matching is unaffected within that window.
type CatalogCache struct {
	mu        sync.RWMutex
	entries   []response_models.CatalogDestination
	fetchedAt time.Time
	ttl       time.Duration
}

func NewCatalogCache(ttl time.Duration) *CatalogCache {
	return &CatalogCache{ttl: ttl}
}

func (c *CatalogCache) Get() ([]response_models.CatalogDestination, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entries == nil || time.Since(c.fetchedAt) > c.ttl {
		return nil, false
	}
	return c.entries, true
}

func (c *CatalogCache) Set(entries []response_models.CatalogDestination) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
	c.fetchedAt = time.Now()
}

func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}
