package cache

import (
	"context"
	"sync"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/policy"
	"github.com/google/uuid"
)

type cacheEntry struct {
	value     policy.TenantPolicy
	expiresAt time.Time
}

func (e cacheEntry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemoryPolicyCache keeps policies in process. Entries expire lazily on read.
// Instances do not share invalidations.
type InMemoryPolicyCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]cacheEntry
	now     func() time.Time
}

// NewInMemoryPolicyCache creates an empty in-memory cache
func NewInMemoryPolicyCache() *InMemoryPolicyCache {
	return &InMemoryPolicyCache{
		entries: make(map[uuid.UUID]cacheEntry),
		now:     time.Now,
	}
}

// Get returns a copy of the cached policy
func (c *InMemoryPolicyCache) Get(_ context.Context, tenantID uuid.UUID) (policy.TenantPolicy, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[tenantID]
	c.mu.RUnlock()

	if !ok {
		return policy.TenantPolicy{}, false, nil
	}
	if entry.isExpired(c.now()) {
		c.mu.Lock()
		delete(c.entries, tenantID)
		c.mu.Unlock()
		return policy.TenantPolicy{}, false, nil
	}
	return entry.value.Clone(), true, nil
}

// Set stores a copy of the policy
func (c *InMemoryPolicyCache) Set(_ context.Context, tenantID uuid.UUID, p policy.TenantPolicy, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[tenantID] = cacheEntry{value: p.Clone(), expiresAt: c.now().Add(ttl)}
	return nil
}

// Invalidate drops the cached policy of a tenant
func (c *InMemoryPolicyCache) Invalidate(_ context.Context, tenantID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, tenantID)
	return nil
}

// Len returns the number of cached tenants, expired entries included
func (c *InMemoryPolicyCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
