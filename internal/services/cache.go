package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"weatheralert/internal/models"
)

type cachedSnapshot struct {
	snap     *models.Snapshot
	storedAt time.Time
}

// SnapshotCache keeps the most recent snapshot per location so the API
// can serve current conditions without hitting the provider or the
// database. Entries go stale after maxAge and read as absent.
type SnapshotCache struct {
	mu     sync.RWMutex
	latest map[string]cachedSnapshot
	maxAge time.Duration
	logger *zap.Logger
}

func NewSnapshotCache(maxAge time.Duration, logger *zap.Logger) *SnapshotCache {
	return &SnapshotCache{
		latest: make(map[string]cachedSnapshot),
		maxAge: maxAge,
		logger: logger,
	}
}

// Set records the latest snapshot for a location.
func (c *SnapshotCache) Set(location string, snap *models.Snapshot) {
	c.mu.Lock()
	c.latest[location] = cachedSnapshot{snap: snap, storedAt: time.Now()}
	c.mu.Unlock()

	c.logger.Debug("Snapshot cached", zap.String("location", location))
}

// Latest returns the freshest snapshot for a location, or false when
// there is none or it has gone stale.
func (c *SnapshotCache) Latest(location string) (*models.Snapshot, bool) {
	c.mu.RLock()
	item, ok := c.latest[location]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.maxAge > 0 && time.Since(item.storedAt) > c.maxAge {
		return nil, false
	}
	return item.snap, true
}

// Stats reports cache occupancy for the health endpoint.
func (c *SnapshotCache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"locations": len(c.latest),
		"max_age":   c.maxAge.String(),
	}
}
