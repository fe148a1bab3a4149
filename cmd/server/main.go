package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"weatheralert/internal/alerts"
	"weatheralert/internal/api"
	"weatheralert/internal/config"
	"weatheralert/internal/metrics"
	"weatheralert/internal/notify"
	"weatheralert/internal/rules"
	"weatheralert/internal/scheduler"
	"weatheralert/internal/services"
	"weatheralert/internal/storage"
	"weatheralert/pkg/client"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting Weather Alert Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Load alert rules. A broken rules file must stop startup: running
	// with an empty ruleset would silently disable every alert.
	ruleStore, err := rules.NewStore(cfg.Alerts.RulesPath, logger)
	if err != nil {
		logger.Fatal("Failed to load alert rules", zap.Error(err))
	}

	// Open the snapshot/alert archive
	store, err := storage.Open(cfg.Storage.Path, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer store.Close()

	// Select the weather provider
	provider, err := buildProvider(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize weather provider", zap.Error(err))
	}
	logger.Info("Weather provider initialized", zap.String("provider", provider.Name()))

	// Wire the alert engine
	collector := metrics.NewCollector("weatheralert", prometheus.DefaultRegisterer)
	tracker := alerts.NewCooldownTracker(cfg.Alerts.Cooldown)
	engine := alerts.NewEngine(ruleStore, tracker, collector, logger)

	cache := services.NewSnapshotCache(cfg.Cache.MaxAge, logger)
	notifier := notify.NewLogNotifier(logger)

	// Scheduler cadence: the rules document may set its own interval and
	// retention, otherwise the environment defaults apply.
	schedCfg := scheduler.Config{
		Interval:    cfg.Scheduler.CheckInterval,
		HistoryDays: cfg.Scheduler.HistoryDays,
	}
	if prefs := ruleStore.Current().Preferences; prefs.CheckIntervalMinutes > 0 {
		schedCfg.Interval = time.Duration(prefs.CheckIntervalMinutes) * time.Minute
	}
	if prefs := ruleStore.Current().Preferences; prefs.HistoryDays > 0 {
		schedCfg.HistoryDays = prefs.HistoryDays
	}

	weatherScheduler := scheduler.New(provider, engine, ruleStore, store, cache,
		notifier, collector, schedCfg, logger)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: errorHandler,
	})

	handler := api.NewHandler(ruleStore, store, cache, weatherScheduler, logger)
	api.SetupRoutes(app, handler, logger)

	// Start scheduler
	if err := weatherScheduler.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// Prometheus metrics on a dedicated listener; fiber's fasthttp can't
	// mount promhttp directly.
	metricsServer := &http.Server{Addr: cfg.Metrics.Addr, Handler: promhttp.Handler()}
	go func() {
		logger.Info("Starting metrics server", zap.String("address", cfg.Metrics.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	// Start API server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// SIGHUP reloads the rules file; SIGINT/SIGTERM shut down.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range signals {
		if sig == syscall.SIGHUP {
			logger.Info("Received SIGHUP, reloading rules")
			if err := ruleStore.Refresh(); err != nil {
				logger.Error("Rules reload failed, keeping previous rules", zap.Error(err))
			}
			continue
		}
		break
	}

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	weatherScheduler.Stop()

	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("Metrics server shutdown failed", zap.Error(err))
	}
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// buildProvider selects the snapshot provider named in the configuration.
func buildProvider(cfg *config.Config, logger *zap.Logger) (client.SnapshotProvider, error) {
	clientConfig := client.ClientConfig{
		Timeout:        10 * time.Second,
		MaxRetries:     cfg.Retry.MaxRetries,
		RetryDelay:     cfg.Retry.Delay,
		Multiplier:     cfg.Retry.Multiplier,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
	}

	switch cfg.WeatherAPI.Service {
	case "openweathermap":
		if cfg.WeatherAPI.OpenWeatherAPIKey == "" {
			return nil, fmt.Errorf("OPENWEATHER_API_KEY is required for service %q", cfg.WeatherAPI.Service)
		}
		return client.NewOpenWeatherClient(cfg.WeatherAPI.OpenWeatherAPIKey, clientConfig, logger), nil
	case "open-meteo":
		return client.NewOpenMeteoClient(cfg.WeatherAPI.OpenMeteoURL, clientConfig, logger), nil
	default:
		return nil, fmt.Errorf("unsupported weather service: %s", cfg.WeatherAPI.Service)
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))

	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   err.Error(),
		"success": false,
	})
}
