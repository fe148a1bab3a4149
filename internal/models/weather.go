package models

import (
	"time"
)

// Snapshot is one set of environmental readings at a single instant,
// normalized from whichever provider produced it. Numeric fields are
// pointers because absence is meaningful: a missing reading must not be
// confused with a zero reading.
type Snapshot struct {
	Timestamp     time.Time      `json:"timestamp"`
	Location      *GeoPoint      `json:"location,omitempty"`
	Temperature   *Temperature   `json:"temperature,omitempty"`
	Humidity      *float64       `json:"humidity,omitempty"`
	Pressure      *float64       `json:"pressure,omitempty"`
	Wind          *Wind          `json:"wind,omitempty"`
	Clouds        *float64       `json:"clouds,omitempty"`
	Precipitation *Precipitation `json:"precipitation,omitempty"`
	Weather       *WeatherInfo   `json:"weather,omitempty"`
	Source        string         `json:"source,omitempty"`
}

type GeoPoint struct {
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Temperature struct {
	Current   *float64 `json:"current,omitempty"`
	FeelsLike *float64 `json:"feels_like,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

type Wind struct {
	Speed     *float64 `json:"speed,omitempty"`
	Direction *float64 `json:"direction,omitempty"`
}

// Precipitation holds rain and snow volumes in mm. A present block with a
// nil sub-field reads as zero; a nil block reads as "no data".
type Precipitation struct {
	Rain *float64 `json:"rain,omitempty"`
	Snow *float64 `json:"snow,omitempty"`
}

type WeatherInfo struct {
	Condition   string `json:"condition,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// TriggeredAlert is the record emitted for each rule that matched a
// snapshot and passed quiet-hours and cooldown gating. Immutable once
// constructed.
type TriggeredAlert struct {
	ID           string    `json:"id"`
	Location     string    `json:"location"`
	Condition    Condition `json:"condition"`
	Threshold    float64   `json:"threshold"`
	CurrentValue float64   `json:"current_value"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}

// Float returns a pointer to v. Convenience for building snapshots.
func Float(v float64) *float64 {
	return &v
}
