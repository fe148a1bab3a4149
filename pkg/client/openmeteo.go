package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"weatheralert/internal/models"
)

// OpenMeteoClient fetches current conditions from the Open-Meteo forecast
// endpoint. Open-Meteo is keyless, which makes it a convenient provider
// when no OpenWeatherMap API key is configured.
type OpenMeteoClient struct {
	*BaseClient
	baseURL string
}

type OpenMeteoCurrentResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   struct {
		Time                string  `json:"time"`
		Temperature2M       float64 `json:"temperature_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		RelativeHumidity2M  float64 `json:"relative_humidity_2m"`
		PressureMSL         float64 `json:"pressure_msl"`
		WindSpeed10M        float64 `json:"wind_speed_10m"`
		WindDirection10M    float64 `json:"wind_direction_10m"`
		CloudCover          float64 `json:"cloud_cover"`
		Rain                float64 `json:"rain"`
		Snowfall            float64 `json:"snowfall"`
		WeatherCode         int     `json:"weather_code"`
	} `json:"current"`
}

func NewOpenMeteoClient(baseURL string, config ClientConfig, logger *zap.Logger) *OpenMeteoClient {
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com/v1"
	}
	return &OpenMeteoClient{
		BaseClient: NewBaseClient("openmeteo", config, logger),
		baseURL:    baseURL,
	}
}

func (c *OpenMeteoClient) Name() string {
	return "open-meteo"
}

func (c *OpenMeteoClient) CurrentSnapshot(ctx context.Context, latitude, longitude float64) (*models.Snapshot, error) {
	url := fmt.Sprintf("%s/forecast?latitude=%v&longitude=%v&current=temperature_2m,apparent_temperature,relative_humidity_2m,pressure_msl,wind_speed_10m,wind_direction_10m,cloud_cover,rain,snowfall,weather_code",
		c.baseURL, latitude, longitude)

	data, err := c.GetWithRetry(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current weather: %w", err)
	}

	var response OpenMeteoCurrentResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	timestamp, err := time.Parse("2006-01-02T15:04", response.Current.Time)
	if err != nil {
		timestamp = time.Now()
	}

	// Open-Meteo reports snowfall in cm; convert to mm of water-equivalent
	// depth to stay comparable with OWM.
	snowMM := response.Current.Snowfall * 10

	snap := &models.Snapshot{
		Timestamp: timestamp,
		Location: &models.GeoPoint{
			Latitude:  latitude,
			Longitude: longitude,
		},
		Temperature: &models.Temperature{
			Current:   models.Float(response.Current.Temperature2M),
			FeelsLike: models.Float(response.Current.ApparentTemperature),
		},
		Humidity: models.Float(response.Current.RelativeHumidity2M),
		Pressure: models.Float(response.Current.PressureMSL),
		Wind: &models.Wind{
			Speed:     models.Float(response.Current.WindSpeed10M),
			Direction: models.Float(response.Current.WindDirection10M),
		},
		Clouds: models.Float(response.Current.CloudCover),
		Precipitation: &models.Precipitation{
			Rain: models.Float(response.Current.Rain),
			Snow: models.Float(snowMM),
		},
		Weather: &models.WeatherInfo{
			Description: weatherCodeToDescription(response.Current.WeatherCode),
		},
		Source: c.Name(),
	}

	return snap, nil
}

// weatherCodeToDescription maps WMO weather interpretation codes to a
// short human-readable description.
func weatherCodeToDescription(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code <= 3:
		return "partly cloudy"
	case code <= 48:
		return "fog"
	case code <= 57:
		return "drizzle"
	case code <= 67:
		return "rain"
	case code <= 77:
		return "snow"
	case code <= 82:
		return "rain showers"
	case code <= 86:
		return "snow showers"
	default:
		return "thunderstorm"
	}
}
