package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"weatheralert/internal/models"
)

// OpenWeatherClient fetches current conditions from the OpenWeatherMap
// current-weather endpoint and normalizes them into a Snapshot.
type OpenWeatherClient struct {
	*BaseClient
	apiKey  string
	baseURL string
	units   string
}

// OpenWeatherCurrentResponse mirrors the parts of the OWM payload we
// consume. Rain and Snow blocks are omitted entirely when there is no
// precipitation, hence the pointers.
type OpenWeatherCurrentResponse struct {
	Coord struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"coord"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Rain *struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Snow *struct {
		OneHour float64 `json:"1h"`
	} `json:"snow"`
	Dt   int64  `json:"dt"`
	Name string `json:"name"`
	Cod  int    `json:"cod"`
}

func NewOpenWeatherClient(apiKey string, config ClientConfig, logger *zap.Logger) *OpenWeatherClient {
	return &OpenWeatherClient{
		BaseClient: NewBaseClient("openweather", config, logger),
		apiKey:     apiKey,
		baseURL:    "https://api.openweathermap.org/data/2.5",
		units:      "metric",
	}
}

func (c *OpenWeatherClient) Name() string {
	return "openweathermap"
}

// CurrentSnapshot fetches current weather for the coordinates. Rain and
// snow default to zero when OWM reports a dry hour; the precipitation
// block is always present on OWM snapshots.
func (c *OpenWeatherClient) CurrentSnapshot(ctx context.Context, latitude, longitude float64) (*models.Snapshot, error) {
	url := fmt.Sprintf("%s/weather?lat=%v&lon=%v&appid=%s&units=%s",
		c.baseURL, latitude, longitude, c.apiKey, c.units)

	data, err := c.GetWithRetry(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current weather: %w", err)
	}

	var response OpenWeatherCurrentResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if response.Cod != 200 {
		return nil, fmt.Errorf("API error: %d", response.Cod)
	}

	precip := &models.Precipitation{
		Rain: models.Float(0),
		Snow: models.Float(0),
	}
	if response.Rain != nil {
		precip.Rain = models.Float(response.Rain.OneHour)
	}
	if response.Snow != nil {
		precip.Snow = models.Float(response.Snow.OneHour)
	}

	snap := &models.Snapshot{
		Timestamp: time.Unix(response.Dt, 0),
		Location: &models.GeoPoint{
			Name:      response.Name,
			Latitude:  latitude,
			Longitude: longitude,
		},
		Temperature: &models.Temperature{
			Current:   models.Float(response.Main.Temp),
			FeelsLike: models.Float(response.Main.FeelsLike),
			Min:       models.Float(response.Main.TempMin),
			Max:       models.Float(response.Main.TempMax),
		},
		Humidity:      models.Float(response.Main.Humidity),
		Pressure:      models.Float(response.Main.Pressure),
		Wind:          &models.Wind{Speed: models.Float(response.Wind.Speed), Direction: models.Float(response.Wind.Deg)},
		Clouds:        models.Float(response.Clouds.All),
		Precipitation: precip,
		Source:        c.Name(),
	}

	if len(response.Weather) > 0 {
		snap.Weather = &models.WeatherInfo{
			Condition:   response.Weather[0].Main,
			Description: response.Weather[0].Description,
			Icon:        response.Weather[0].Icon,
		}
	}

	return snap, nil
}
