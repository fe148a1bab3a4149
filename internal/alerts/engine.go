package alerts

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"weatheralert/internal/metrics"
	"weatheralert/internal/models"
)

// RuleSource provides the active ruleset. Implemented by rules.Store; the
// engine only ever reads one reference per evaluation, so a concurrent
// refresh is invisible to an in-flight call.
type RuleSource interface {
	Current() *models.RuleSet
}

// Engine evaluates snapshots against the configured alert rules. It
// performs no I/O and runs each Evaluate call synchronously to
// completion; the cooldown tracker is its only shared mutable state, so
// concurrent callers (one per location, typically) are safe.
type Engine struct {
	rules   RuleSource
	tracker *CooldownTracker
	logger  *zap.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

// NewEngine wires an engine around an injected tracker so tests can use a
// fresh tracker per case and concurrent engines never share state.
func NewEngine(rules RuleSource, tracker *CooldownTracker, collector *metrics.Collector, logger *zap.Logger) *Engine {
	return &Engine{
		rules:   rules,
		tracker: tracker,
		logger:  logger,
		metrics: collector,
		now:     time.Now,
	}
}

// Evaluate checks one snapshot against every rule configured for the
// named location and returns the alerts that fired, in rule order.
//
// Quiet hours are a hard global veto: during the quiet window no rules
// are evaluated and no cooldown bookkeeping happens. An unknown location
// is not an error, just nothing to evaluate. A rule with an unrecognized
// condition or operator is skipped without aborting the rest.
func (e *Engine) Evaluate(locationName string, snap *models.Snapshot) []models.TriggeredAlert {
	now := e.now()
	rs := e.rules.Current()

	if e.metrics != nil {
		e.metrics.EvaluationsTotal.Inc()
	}

	if InQuietHours(now, rs.Preferences.QuietHours, e.logger) {
		e.logger.Debug("Skipping alert check during quiet hours",
			zap.String("location", locationName))
		if e.metrics != nil {
			e.metrics.AlertsSuppressed.WithLabelValues(metrics.ReasonQuietHours).Inc()
		}
		return nil
	}

	location := rs.FindLocation(locationName)
	if location == nil {
		e.logger.Warn("Location not found in rules config",
			zap.String("location", locationName))
		return nil
	}

	var triggered []models.TriggeredAlert

	for _, rule := range location.Alerts {
		if !rule.Condition.Valid() {
			e.logger.Warn("Unknown alert condition, skipping rule",
				zap.String("location", locationName),
				zap.String("condition", string(rule.Condition)))
			continue
		}
		if !rule.Operator.Valid() {
			e.logger.Warn("Unknown alert operator, skipping rule",
				zap.String("location", locationName),
				zap.String("operator", string(rule.Operator)))
			continue
		}

		value, ok := ExtractValue(snap, rule.Condition)
		if !ok {
			e.logger.Debug("Snapshot has no reading for condition",
				zap.String("location", locationName),
				zap.String("condition", string(rule.Condition)))
			continue
		}

		if !Matches(value, rule.Operator, rule.Threshold) {
			continue
		}

		key := CooldownKey(locationName, rule)
		if !e.tracker.ShouldFire(key, now) {
			e.logger.Debug("Alert suppressed by cooldown",
				zap.String("key", key))
			if e.metrics != nil {
				e.metrics.AlertsSuppressed.WithLabelValues(metrics.ReasonCooldown).Inc()
			}
			continue
		}

		alert := models.TriggeredAlert{
			ID:           uuid.NewString(),
			Location:     locationName,
			Condition:    rule.Condition,
			Threshold:    rule.Threshold,
			CurrentValue: value,
			Message:      rule.Message,
			Timestamp:    now,
		}
		triggered = append(triggered, alert)

		e.logger.Info("Alert triggered",
			zap.String("location", alert.Location),
			zap.String("condition", string(alert.Condition)),
			zap.Float64("threshold", alert.Threshold),
			zap.Float64("current_value", alert.CurrentValue))
		if e.metrics != nil {
			e.metrics.AlertsTriggered.WithLabelValues(alert.Location, string(alert.Condition)).Inc()
		}
	}

	return triggered
}
