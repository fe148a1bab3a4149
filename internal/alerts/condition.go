package alerts

import (
	"weatheralert/internal/models"
)

// ExtractValue pulls the reading named by cond out of a snapshot. The
// second return is false when the reading is absent or the condition is
// not recognized; the caller decides whether that is worth a log line.
//
// precipitation is the sum of rain and snow, each defaulting to zero when
// its sub-field is missing. A snapshot with no precipitation block at all
// has no precipitation reading.
func ExtractValue(snap *models.Snapshot, cond models.Condition) (float64, bool) {
	if snap == nil {
		return 0, false
	}

	switch cond {
	case models.ConditionTemperature:
		if snap.Temperature == nil || snap.Temperature.Current == nil {
			return 0, false
		}
		return *snap.Temperature.Current, true
	case models.ConditionFeelsLike:
		if snap.Temperature == nil || snap.Temperature.FeelsLike == nil {
			return 0, false
		}
		return *snap.Temperature.FeelsLike, true
	case models.ConditionHumidity:
		if snap.Humidity == nil {
			return 0, false
		}
		return *snap.Humidity, true
	case models.ConditionPressure:
		if snap.Pressure == nil {
			return 0, false
		}
		return *snap.Pressure, true
	case models.ConditionWind:
		if snap.Wind == nil || snap.Wind.Speed == nil {
			return 0, false
		}
		return *snap.Wind.Speed, true
	case models.ConditionClouds:
		if snap.Clouds == nil {
			return 0, false
		}
		return *snap.Clouds, true
	case models.ConditionPrecipitation:
		if snap.Precipitation == nil {
			return 0, false
		}
		return orZero(snap.Precipitation.Rain) + orZero(snap.Precipitation.Snow), true
	case models.ConditionRain:
		if snap.Precipitation == nil {
			return 0, false
		}
		return orZero(snap.Precipitation.Rain), true
	case models.ConditionSnow:
		if snap.Precipitation == nil {
			return 0, false
		}
		return orZero(snap.Precipitation.Snow), true
	}

	return 0, false
}

// Matches applies op between value and threshold. equals is exact floating
// comparison; brittle for non-integral thresholds, but that is the
// documented behavior and callers rely on it. Unknown operators never
// match.
func Matches(value float64, op models.Operator, threshold float64) bool {
	switch op {
	case models.OperatorAbove:
		return value > threshold
	case models.OperatorBelow:
		return value < threshold
	case models.OperatorEquals:
		return value == threshold
	}
	return false
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
