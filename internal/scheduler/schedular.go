package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"weatheralert/internal/alerts"
	"weatheralert/internal/metrics"
	"weatheralert/internal/models"
	"weatheralert/internal/notify"
	"weatheralert/internal/rules"
	"weatheralert/internal/services"
	"weatheralert/internal/storage"
)

// Scheduler drives the alert pipeline on a fixed cadence: for every
// configured location it fetches a snapshot, archives it, runs the alert
// engine, and forwards triggered alerts to the notifier and the archive.
// The engine itself stays free of I/O and timing concerns.
type Scheduler struct {
	cron        *cron.Cron
	provider    SnapshotProvider
	engine      *alerts.Engine
	rules       *rules.Store
	store       *storage.Store
	cache       *services.SnapshotCache
	notifier    notify.Notifier
	logger      *zap.Logger
	metrics     *metrics.Collector
	interval    time.Duration
	historyDays int

	mu      sync.Mutex
	wg      sync.WaitGroup
	running bool
	lastRun time.Time
}

// SnapshotProvider is the subset of pkg/client the scheduler needs.
type SnapshotProvider interface {
	CurrentSnapshot(ctx context.Context, latitude, longitude float64) (*models.Snapshot, error)
	Name() string
}

type Config struct {
	Interval    time.Duration
	HistoryDays int
}

func New(provider SnapshotProvider, engine *alerts.Engine, ruleStore *rules.Store,
	store *storage.Store, cache *services.SnapshotCache, notifier notify.Notifier,
	collector *metrics.Collector, cfg Config, logger *zap.Logger) *Scheduler {

	return &Scheduler{
		cron:        cron.New(),
		provider:    provider,
		engine:      engine,
		rules:       ruleStore,
		store:       store,
		cache:       cache,
		notifier:    notifier,
		logger:      logger,
		metrics:     collector,
		interval:    cfg.Interval,
		historyDays: cfg.HistoryDays,
	}
}

// Start registers the recurring check and cleanup jobs and begins the
// cron loop. The first check runs immediately rather than one interval
// from now.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.RunChecks); err != nil {
		return fmt.Errorf("registering check job: %w", err)
	}
	if _, err := s.cron.AddFunc("@daily", s.runCleanup); err != nil {
		return fmt.Errorf("registering cleanup job: %w", err)
	}

	s.cron.Start()
	s.spawnChecks()

	s.logger.Info("Scheduler started",
		zap.Duration("interval", s.interval),
		zap.Int("history_days", s.historyDays))
	return nil
}

// Stop halts the cron loop and waits for any running check to finish,
// including the startup check and manual runs, which execute outside
// cron.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
	s.wg.Wait()
}

// spawnChecks runs RunChecks on a tracked goroutine so Stop can wait
// for it.
func (s *Scheduler) spawnChecks() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RunChecks()
	}()
}

// RunChecks evaluates every configured location once. Per-location
// failures are logged and isolated so one bad fetch never starves the
// other locations.
func (s *Scheduler) RunChecks() {
	start := time.Now()
	s.mu.Lock()
	s.lastRun = start
	s.mu.Unlock()

	rs := s.rules.Current()
	s.logger.Info("Starting weather check",
		zap.Int("locations", len(rs.Locations)))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, location := range rs.Locations {
		if err := s.checkLocation(ctx, location); err != nil {
			s.logger.Error("Location check failed",
				zap.String("location", location.Name),
				zap.Error(err))
		}
	}

	s.logger.Info("Weather check completed",
		zap.Duration("duration", time.Since(start)))
}

func (s *Scheduler) checkLocation(ctx context.Context, location models.Location) error {
	fetchStart := time.Now()
	snap, err := s.provider.CurrentSnapshot(ctx, location.Latitude, location.Longitude)
	if s.metrics != nil {
		s.metrics.FetchDurationSeconds.Observe(time.Since(fetchStart).Seconds())
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.FetchErrorsTotal.WithLabelValues(s.provider.Name()).Inc()
		}
		return fmt.Errorf("fetching snapshot: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SnapshotsFetched.WithLabelValues(s.provider.Name()).Inc()
	}

	s.cache.Set(location.Name, snap)

	if err := s.store.StoreSnapshot(ctx, location.Name, snap); err != nil {
		// Archiving is best-effort; evaluation still runs.
		s.logger.Error("Failed to archive snapshot",
			zap.String("location", location.Name),
			zap.Error(err))
	}

	triggered := s.engine.Evaluate(location.Name, snap)
	for _, alert := range triggered {
		if err := s.notifier.Send(alert); err != nil {
			s.logger.Error("Failed to deliver alert",
				zap.String("location", alert.Location),
				zap.Error(err))
		}
		if err := s.store.StoreAlert(ctx, alert); err != nil {
			s.logger.Error("Failed to archive alert",
				zap.String("location", alert.Location),
				zap.Error(err))
		}
	}

	if len(triggered) > 0 {
		s.logger.Info("Alerts sent",
			zap.String("location", location.Name),
			zap.Int("count", len(triggered)))
	} else {
		s.logger.Debug("No alerts triggered",
			zap.String("location", location.Name))
	}
	return nil
}

func (s *Scheduler) runCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if _, err := s.store.CleanupOlderThan(ctx, s.historyDays); err != nil {
		s.logger.Error("History cleanup failed", zap.Error(err))
	}
}

// ForceRun triggers an immediate check outside the cron cadence.
func (s *Scheduler) ForceRun() {
	s.logger.Info("Manually triggering weather check")
	s.spawnChecks()
}

// Status reports scheduler state for the health endpoint.
func (s *Scheduler) Status() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]interface{}{
		"running":  s.running,
		"interval": s.interval.String(),
		"last_run": s.lastRun,
	}
}
