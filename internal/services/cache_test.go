package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"weatheralert/internal/models"
)

func TestSnapshotCache_SetAndLatest(t *testing.T) {
	cache := NewSnapshotCache(time.Hour, zap.NewNop())

	_, ok := cache.Latest("Springfield")
	assert.False(t, ok)

	snap := &models.Snapshot{Temperature: &models.Temperature{Current: models.Float(21.5)}}
	cache.Set("Springfield", snap)

	got, ok := cache.Latest("Springfield")
	require.True(t, ok)
	assert.Equal(t, 21.5, *got.Temperature.Current)

	// Writing again replaces the previous snapshot.
	cache.Set("Springfield", &models.Snapshot{Temperature: &models.Temperature{Current: models.Float(23.0)}})
	got, ok = cache.Latest("Springfield")
	require.True(t, ok)
	assert.Equal(t, 23.0, *got.Temperature.Current)
}

func TestSnapshotCache_Staleness(t *testing.T) {
	cache := NewSnapshotCache(time.Nanosecond, zap.NewNop())
	cache.Set("Springfield", &models.Snapshot{})

	time.Sleep(time.Millisecond)
	_, ok := cache.Latest("Springfield")
	assert.False(t, ok)
}

func TestSnapshotCache_Stats(t *testing.T) {
	cache := NewSnapshotCache(time.Hour, zap.NewNop())
	cache.Set("Springfield", &models.Snapshot{})
	cache.Set("Shelbyville", &models.Snapshot{})

	stats := cache.Stats()
	assert.Equal(t, 2, stats["locations"])
	assert.Equal(t, "1h0m0s", stats["max_age"])
}
