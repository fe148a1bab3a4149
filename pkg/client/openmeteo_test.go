package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenMeteoClient_CurrentSnapshot(t *testing.T) {
	payload := `{
	  "latitude": 39.78,
	  "longitude": -89.65,
	  "current": {
	    "time": "2025-06-15T12:00",
	    "temperature_2m": 18.4,
	    "apparent_temperature": 17.1,
	    "relative_humidity_2m": 72,
	    "pressure_msl": 1008.5,
	    "wind_speed_10m": 6.3,
	    "wind_direction_10m": 220,
	    "cloud_cover": 80,
	    "rain": 1.5,
	    "snowfall": 0.2,
	    "weather_code": 61
	  }
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "39.78", q.Get("latitude"))
		assert.Contains(t, q.Get("current"), "temperature_2m")
		w.Write([]byte(payload))
	}))
	defer server.Close()

	c := NewOpenMeteoClient(server.URL, testClientConfig(), zap.NewNop())

	snap, err := c.CurrentSnapshot(context.Background(), 39.78, -89.65)
	require.NoError(t, err)

	assert.Equal(t, "open-meteo", snap.Source)
	assert.Equal(t, 18.4, *snap.Temperature.Current)
	assert.Equal(t, 17.1, *snap.Temperature.FeelsLike)
	assert.Equal(t, 72.0, *snap.Humidity)
	assert.Equal(t, 1008.5, *snap.Pressure)
	assert.Equal(t, 6.3, *snap.Wind.Speed)
	assert.Equal(t, 80.0, *snap.Clouds)
	assert.Equal(t, "rain", snap.Weather.Description)

	want := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	assert.True(t, want.Equal(snap.Timestamp))

	// Snowfall arrives in cm and is stored in mm.
	assert.Equal(t, 1.5, *snap.Precipitation.Rain)
	assert.Equal(t, 2.0, *snap.Precipitation.Snow)
}

func TestOpenMeteoClient_DefaultBaseURL(t *testing.T) {
	c := NewOpenMeteoClient("", testClientConfig(), zap.NewNop())
	assert.Equal(t, "https://api.open-meteo.com/v1", c.baseURL)
}

func TestWeatherCodeToDescription(t *testing.T) {
	assert.Equal(t, "clear sky", weatherCodeToDescription(0))
	assert.Equal(t, "partly cloudy", weatherCodeToDescription(2))
	assert.Equal(t, "fog", weatherCodeToDescription(45))
	assert.Equal(t, "rain", weatherCodeToDescription(63))
	assert.Equal(t, "snow", weatherCodeToDescription(73))
	assert.Equal(t, "thunderstorm", weatherCodeToDescription(95))
}
