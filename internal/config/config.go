package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		LogLevel     string
	}

	WeatherAPI struct {
		Service           string
		OpenWeatherAPIKey string
		OpenMeteoURL      string
	}

	Alerts struct {
		RulesPath string
		Cooldown  time.Duration
	}

	Scheduler struct {
		CheckInterval time.Duration
		HistoryDays   int
	}

	Storage struct {
		Path string
	}

	Metrics struct {
		Addr string
	}

	Cache struct {
		MaxAge time.Duration
	}

	Retry struct {
		MaxRetries int
		Delay      time.Duration
		Multiplier float64
	}

	CircuitBreaker struct {
		Timeout time.Duration
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("FIBER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("FIBER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("FIBER_WRITE_TIMEOUT", "10s"))
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	// Weather provider configuration
	cfg.WeatherAPI.Service = getEnv("WEATHER_SERVICE", "openweathermap")
	cfg.WeatherAPI.OpenWeatherAPIKey = getEnv("OPENWEATHER_API_KEY", "")
	cfg.WeatherAPI.OpenMeteoURL = getEnv("OPENMETEO_URL", "https://api.open-meteo.com/v1")

	// Alert engine configuration
	cfg.Alerts.RulesPath = getEnv("RULES_PATH", "config/rules.json")
	cfg.Alerts.Cooldown = parseDuration(getEnv("ALERT_COOLDOWN", "6h"))

	// Scheduler configuration
	cfg.Scheduler.CheckInterval = parseDuration(getEnv("CHECK_INTERVAL", "30m"))
	cfg.Scheduler.HistoryDays = parseInt(getEnv("HISTORY_DAYS", "30"))

	// Storage configuration
	cfg.Storage.Path = getEnv("DB_PATH", "data/weather_history.db")

	// Metrics configuration
	cfg.Metrics.Addr = getEnv("METRICS_ADDR", ":9090")

	// Snapshot cache configuration
	cfg.Cache.MaxAge = parseDuration(getEnv("CACHE_MAX_AGE", "1h"))

	// Retry configuration
	cfg.Retry.MaxRetries = parseInt(getEnv("MAX_RETRIES", "3"))
	cfg.Retry.Delay = parseDuration(getEnv("RETRY_DELAY", "1s"))
	cfg.Retry.Multiplier = parseFloat(getEnv("RETRY_MULTIPLIER", "2"))

	// Circuit breaker configuration
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}

func parseFloat(value string) float64 {
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return 0
	}
	return floatValue
}
