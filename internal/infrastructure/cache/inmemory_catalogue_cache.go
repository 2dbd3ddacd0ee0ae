package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	appsync "github.com/parkops/backend/internal/application/erpsync"
	"github.com/parkops/backend/internal/domain/erpsync"
)

// catalogueEntry represents a cached catalogue with expiration
type catalogueEntry struct {
	objects   []erpsync.RemoteObject
	expiresAt time.Time
}

// InMemoryCatalogueCache caches remote schema catalogues in process memory.
// This is suitable for single-instance deployments and testing.
type InMemoryCatalogueCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]catalogueEntry
	ttl     time.Duration
}

// NewInMemoryCatalogueCache creates a new in-memory catalogue cache
func NewInMemoryCatalogueCache(ttl time.Duration) *InMemoryCatalogueCache {
	if ttl <= 0 {
		ttl = defaultCatalogueTTL
	}
	return &InMemoryCatalogueCache{
		entries: make(map[uuid.UUID]catalogueEntry),
		ttl:     ttl,
	}
}

// Get returns the cached catalogue for a connection
func (c *InMemoryCatalogueCache) Get(ctx context.Context, connectionID uuid.UUID) ([]erpsync.RemoteObject, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[connectionID]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.objects, true
}

// Put stores the catalogue for a connection with the configured TTL
func (c *InMemoryCatalogueCache) Put(ctx context.Context, connectionID uuid.UUID, objects []erpsync.RemoteObject) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Opportunistically drop expired entries to bound memory
	now := time.Now()
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
		}
	}

	c.entries[connectionID] = catalogueEntry{
		objects:   objects,
		expiresAt: now.Add(c.ttl),
	}
}

// Size returns the number of cached catalogues (for testing/monitoring)
func (c *InMemoryCatalogueCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryCatalogueCache implements CatalogueCache
var _ appsync.CatalogueCache = (*InMemoryCatalogueCache)(nil)
