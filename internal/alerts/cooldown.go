package alerts

import (
	"fmt"
	"sync"
	"time"

	"weatheralert/internal/models"
)

// DefaultCooldown is the minimum elapsed time between two firings of the
// same rule.
const DefaultCooldown = 6 * time.Hour

// CooldownKey derives the dedup identity of a rule at a location. Any
// field change produces a distinct key and therefore a distinct cooldown
// window.
func CooldownKey(location string, rule models.AlertRule) string {
	return fmt.Sprintf("%s_%s_%s_%v", location, rule.Condition, rule.Operator, rule.Threshold)
}

// CooldownTracker records the last firing time per rule key and decides
// whether a match is allowed to fire again. State is process-lifetime
// only; persistence of alert history belongs to the storage layer.
//
// Entries are never evicted. Rule cardinality is small (a handful of
// rules per location), so the map stays tiny for any realistic config.
type CooldownTracker struct {
	mu        sync.Mutex
	cooldown  time.Duration
	lastFired map[string]time.Time
}

// NewCooldownTracker creates a tracker with the given cooldown window.
// A non-positive cooldown falls back to DefaultCooldown.
func NewCooldownTracker(cooldown time.Duration) *CooldownTracker {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &CooldownTracker{
		cooldown:  cooldown,
		lastFired: make(map[string]time.Time),
	}
}

// ShouldFire reports whether the rule behind key may fire at now, and if
// so records now as its new last-fired time in the same critical section.
// The check-and-set is atomic: concurrent evaluations of the same key can
// never both observe "allowed".
//
// A key with no prior firing always fires. Otherwise it fires only when
// strictly more than the cooldown has elapsed; at exactly the cooldown
// boundary the key is still suppressed.
func (t *CooldownTracker) ShouldFire(key string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.lastFired[key]
	if ok && now.Sub(last) <= t.cooldown {
		return false
	}

	t.lastFired[key] = now
	return true
}

// LastFired returns the recorded firing time for key, if any.
func (t *CooldownTracker) LastFired(key string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.lastFired[key]
	return last, ok
}

// Len returns the number of tracked keys.
func (t *CooldownTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lastFired)
}
