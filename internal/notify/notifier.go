package notify

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"weatheralert/internal/models"
)

// Notifier delivers a triggered alert to the user. The engine never calls
// this directly; the scheduler forwards alerts after evaluation.
type Notifier interface {
	Send(alert models.TriggeredAlert) error
}

// LogNotifier is the portable delivery channel: alerts are written to the
// structured log. Desktop toasts and similar platform channels can be
// added behind the same interface.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(alert models.TriggeredAlert) error {
	n.logger.Info("ALERT "+alert.Message,
		zap.String("location", alert.Location),
		zap.String("detail", FormatMessage(alert)))
	return nil
}

// FormatMessage renders an alert body like
// "Temperature is 31.2°C (threshold: 30°C)".
func FormatMessage(alert models.TriggeredAlert) string {
	name := displayName(alert.Condition)
	unit := unitFor(alert.Condition)
	return fmt.Sprintf("%s is %v%s (threshold: %v%s)",
		name, alert.CurrentValue, unit, alert.Threshold, unit)
}

// displayName turns a condition identifier into a title-cased label,
// e.g. feels_like -> Feels Like.
func displayName(cond models.Condition) string {
	words := strings.Split(string(cond), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// unitFor returns the metric display unit for a condition.
func unitFor(cond models.Condition) string {
	switch cond {
	case models.ConditionTemperature, models.ConditionFeelsLike:
		return "°C"
	case models.ConditionPressure:
		return " hPa"
	case models.ConditionHumidity, models.ConditionClouds:
		return "%"
	case models.ConditionWind:
		return " m/s"
	case models.ConditionPrecipitation, models.ConditionRain, models.ConditionSnow:
		return " mm"
	}
	return ""
}
