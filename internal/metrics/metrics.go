package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Suppression reasons used as label values on AlertsSuppressed.
const (
	ReasonQuietHours = "quiet_hours"
	ReasonCooldown   = "cooldown"
)

// Collector bundles the service's Prometheus instruments. Instruments are
// registered against the given registerer so tests can use a private
// registry.
type Collector struct {
	EvaluationsTotal     prometheus.Counter
	AlertsTriggered      *prometheus.CounterVec
	AlertsSuppressed     *prometheus.CounterVec
	SnapshotsFetched     *prometheus.CounterVec
	FetchErrorsTotal     *prometheus.CounterVec
	FetchDurationSeconds prometheus.Histogram
}

// NewCollector creates and registers the collector. Pass
// prometheus.DefaultRegisterer in production.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		EvaluationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluations_total",
				Help:      "Total number of snapshot evaluations run by the alert engine",
			},
		),

		AlertsTriggered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_triggered_total",
				Help:      "Total number of alerts fired, by location and condition",
			},
			[]string{"location", "condition"},
		),

		AlertsSuppressed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_suppressed_total",
				Help:      "Total number of suppressed firings, by reason",
			},
			[]string{"reason"},
		),

		SnapshotsFetched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshots_fetched_total",
				Help:      "Total number of weather snapshots fetched, by source",
			},
			[]string{"source"},
		),

		FetchErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_errors_total",
				Help:      "Total number of failed weather fetches, by source",
			},
			[]string{"source"},
		),

		FetchDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of weather provider fetches in seconds",
				Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
		),
	}
}
