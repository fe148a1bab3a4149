package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"weatheralert/internal/models"
	"weatheralert/internal/rules"
	"weatheralert/internal/scheduler"
	"weatheralert/internal/services"
	"weatheralert/internal/storage"
)

type Handler struct {
	rules     *rules.Store
	store     *storage.Store
	cache     *services.SnapshotCache
	scheduler *scheduler.Scheduler
	logger    *zap.Logger
}

func NewHandler(ruleStore *rules.Store, store *storage.Store, cache *services.SnapshotCache,
	sched *scheduler.Scheduler, logger *zap.Logger) *Handler {
	return &Handler{
		rules:     ruleStore,
		store:     store,
		cache:     cache,
		scheduler: sched,
		logger:    logger,
	}
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
		"scheduler": h.scheduler.Status(),
		"cache":     h.cache.Stats(),
	})
}

// GetLocations handles GET /api/v1/locations
func (h *Handler) GetLocations(c *fiber.Ctx) error {
	rs := h.rules.Current()

	type locationSummary struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Rules     int     `json:"rules"`
	}

	locations := make([]locationSummary, 0, len(rs.Locations))
	for _, loc := range rs.Locations {
		locations = append(locations, locationSummary{
			Name:      loc.Name,
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			Rules:     len(loc.Alerts),
		})
	}

	return c.JSON(fiber.Map{"locations": locations})
}

// GetCurrentWeather handles GET /api/v1/weather/current
func (h *Handler) GetCurrentWeather(c *fiber.Ctx) error {
	location := c.Query("location")
	if location == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "location parameter is required",
		})
	}

	snap, ok := h.cache.Latest(location)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no recent snapshot for location",
		})
	}

	return c.JSON(snap)
}

// GetAlerts handles GET /api/v1/alerts
func (h *Handler) GetAlerts(c *fiber.Ctx) error {
	location := c.Query("location")
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "days parameter must be a positive integer",
		})
	}

	alerts, err := h.store.Alerts(c.Context(), location, days)
	if err != nil {
		h.logger.Error("Failed to query alert history",
			zap.String("location", location),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to query alert history",
		})
	}

	if alerts == nil {
		alerts = []models.TriggeredAlert{}
	}
	return c.JSON(fiber.Map{"alerts": alerts, "days": days})
}

// GetStatistics handles GET /api/v1/stats
func (h *Handler) GetStatistics(c *fiber.Ctx) error {
	location := c.Query("location")
	condition := models.Condition(c.Query("condition"))
	if location == "" || condition == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "location and condition parameters are required",
		})
	}
	if !condition.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown condition: " + string(condition),
		})
	}

	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "days parameter must be a positive integer",
		})
	}

	stats, err := h.store.Statistics(c.Context(), location, condition, days)
	if err != nil {
		h.logger.Error("Failed to compute statistics",
			zap.String("location", location),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to compute statistics",
		})
	}

	return c.JSON(fiber.Map{
		"location":  location,
		"condition": condition,
		"days":      days,
		"stats":     stats,
	})
}

// PostCheck handles POST /api/v1/check
func (h *Handler) PostCheck(c *fiber.Ctx) error {
	h.scheduler.ForceRun()
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "check triggered",
	})
}

// PostRefreshRules handles POST /api/v1/rules/refresh
func (h *Handler) PostRefreshRules(c *fiber.Ctx) error {
	if err := h.rules.Refresh(); err != nil {
		h.logger.Error("Rules refresh failed", zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "rules refresh failed",
			"details": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "rules reloaded"})
}

var startTime = time.Now()
