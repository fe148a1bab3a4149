package models

import (
	"strings"
)

// Condition names a snapshot reading an alert rule can test against.
// The set is closed; anything else is unrecognized and never fires.
type Condition string

const (
	ConditionTemperature   Condition = "temperature"
	ConditionFeelsLike     Condition = "feels_like"
	ConditionHumidity      Condition = "humidity"
	ConditionPressure      Condition = "pressure"
	ConditionWind          Condition = "wind"
	ConditionClouds        Condition = "clouds"
	ConditionPrecipitation Condition = "precipitation"
	ConditionRain          Condition = "rain"
	ConditionSnow          Condition = "snow"
)

// Valid reports whether c is one of the known conditions.
func (c Condition) Valid() bool {
	switch c {
	case ConditionTemperature, ConditionFeelsLike, ConditionHumidity,
		ConditionPressure, ConditionWind, ConditionClouds,
		ConditionPrecipitation, ConditionRain, ConditionSnow:
		return true
	}
	return false
}

// Operator is the comparison applied between a reading and a threshold.
type Operator string

const (
	OperatorAbove  Operator = "above"
	OperatorBelow  Operator = "below"
	OperatorEquals Operator = "equals"
)

func (o Operator) Valid() bool {
	switch o {
	case OperatorAbove, OperatorBelow, OperatorEquals:
		return true
	}
	return false
}

// AlertRule is one threshold rule scoped to a location. Its dedup identity
// is the (location, condition, operator, threshold) tuple; changing any
// field makes a logically distinct rule.
type AlertRule struct {
	Condition Condition `json:"condition"`
	Operator  Operator  `json:"operator"`
	Threshold float64   `json:"value"`
	Message   string    `json:"message"`
}

// Location is a named point with its ordered alert rules.
type Location struct {
	Name      string      `json:"name"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Alerts    []AlertRule `json:"alerts"`
}

// QuietHours is a wall-clock window during which no alerts fire. Start and
// end are "HH:MM" strings with no date or timezone component; the service
// is assumed to run in one local zone.
type QuietHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type Preferences struct {
	QuietHours           QuietHours `json:"quiet_hours"`
	CheckIntervalMinutes int        `json:"check_interval_minutes,omitempty"`
	HistoryDays          int        `json:"history_days,omitempty"`
}

// RuleSet is the parsed alert configuration. It is read-only once loaded;
// a refresh builds a new RuleSet and swaps the reference.
type RuleSet struct {
	Locations   []Location  `json:"locations"`
	Preferences Preferences `json:"preferences"`
}

// FindLocation resolves a name against the configured locations. Names are
// compared exactly after trimming surrounding whitespace; the match is
// case-sensitive. Returns nil when the location is not configured.
func (rs *RuleSet) FindLocation(name string) *Location {
	want := strings.TrimSpace(name)
	for i := range rs.Locations {
		if strings.TrimSpace(rs.Locations[i].Name) == want {
			return &rs.Locations[i]
		}
	}
	return nil
}
