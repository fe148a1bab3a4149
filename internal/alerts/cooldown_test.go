package alerts

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"weatheralert/internal/models"
)

func TestCooldownTracker_FirstFireAlwaysAllowed(t *testing.T) {
	tracker := NewCooldownTracker(6 * time.Hour)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, tracker.ShouldFire("Springfield_temperature_above_30", now))

	last, ok := tracker.LastFired("Springfield_temperature_above_30")
	assert.True(t, ok)
	assert.Equal(t, now, last)
}

func TestCooldownTracker_StrictBoundary(t *testing.T) {
	tracker := NewCooldownTracker(6 * time.Hour)
	t0 := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	key := "Springfield_temperature_above_30"

	assert.True(t, tracker.ShouldFire(key, t0))

	// Inside the window.
	assert.False(t, tracker.ShouldFire(key, t0.Add(time.Hour)))

	// Exactly the cooldown elapsed does not yet re-permit firing.
	assert.False(t, tracker.ShouldFire(key, t0.Add(6*time.Hour)))

	// Strictly past the cooldown fires again and re-arms from the new time.
	assert.True(t, tracker.ShouldFire(key, t0.Add(6*time.Hour+time.Second)))
	assert.False(t, tracker.ShouldFire(key, t0.Add(7*time.Hour)))
}

func TestCooldownTracker_SuppressedMatchDoesNotExtendWindow(t *testing.T) {
	tracker := NewCooldownTracker(6 * time.Hour)
	t0 := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	key := "k"

	assert.True(t, tracker.ShouldFire(key, t0))
	assert.False(t, tracker.ShouldFire(key, t0.Add(5*time.Hour)))

	// The suppressed check at t0+5h must not have reset the timer.
	assert.True(t, tracker.ShouldFire(key, t0.Add(6*time.Hour+time.Minute)))
}

func TestCooldownTracker_KeysAreIndependent(t *testing.T) {
	tracker := NewCooldownTracker(6 * time.Hour)
	now := time.Now()

	assert.True(t, tracker.ShouldFire("a", now))
	assert.True(t, tracker.ShouldFire("b", now))
	assert.False(t, tracker.ShouldFire("a", now.Add(time.Minute)))
	assert.Equal(t, 2, tracker.Len())
}

func TestCooldownTracker_ConcurrentCheckAndSet(t *testing.T) {
	// Concurrent evaluations of the same key must never both observe
	// "allowed".
	tracker := NewCooldownTracker(6 * time.Hour)
	now := time.Now()

	const workers = 32
	var wg sync.WaitGroup
	allowed := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tracker.ShouldFire("shared", now) {
				allowed <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for range allowed {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestCooldownKey(t *testing.T) {
	rule := models.AlertRule{
		Condition: models.ConditionTemperature,
		Operator:  models.OperatorAbove,
		Threshold: 30,
	}
	key := CooldownKey("Springfield", rule)
	assert.Equal(t, "Springfield_temperature_above_30", key)

	// Changing any field yields a distinct key.
	other := rule
	other.Threshold = 31
	assert.NotEqual(t, key, CooldownKey("Springfield", other))
}
