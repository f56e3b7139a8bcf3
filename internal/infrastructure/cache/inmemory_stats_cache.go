package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/report"
)

// InMemoryStatsCache caches dashboard stats in process memory. It is the
// default when Redis is disabled; single-instance deployments need nothing
// more.
type InMemoryStatsCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]statsEntry
	ttl     time.Duration
}

type statsEntry struct {
	stats     report.DashboardStats
	expiresAt time.Time
}

// NewInMemoryStatsCache creates a new in-memory stats cache
func NewInMemoryStatsCache(ttl time.Duration) *InMemoryStatsCache {
	return &InMemoryStatsCache{
		entries: make(map[uuid.UUID]statsEntry),
		ttl:     ttl,
	}
}

// GetDashboardStats returns the cached stats, or (nil, nil) when missing or
// expired
func (c *InMemoryStatsCache) GetDashboardStats(_ context.Context, orgID uuid.UUID) (*report.DashboardStats, error) {
	c.mu.RLock()
	entry, ok := c.entries[orgID]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, orgID)
		c.mu.Unlock()
		return nil, nil
	}

	stats := entry.stats
	return &stats, nil
}

// SetDashboardStats stores a copy of the stats with the configured TTL
func (c *InMemoryStatsCache) SetDashboardStats(_ context.Context, orgID uuid.UUID, stats *report.DashboardStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[orgID] = statsEntry{
		stats:     *stats,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// InvalidateDashboardStats drops the cached stats for the organization
func (c *InMemoryStatsCache) InvalidateDashboardStats(_ context.Context, orgID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, orgID)
	return nil
}
