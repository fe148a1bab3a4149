package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"weatheralert/internal/models"
)

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name  string
		alert models.TriggeredAlert
		want  string
	}{
		{
			name: "temperature",
			alert: models.TriggeredAlert{
				Condition: models.ConditionTemperature, CurrentValue: 31.2, Threshold: 30,
			},
			want: "Temperature is 31.2°C (threshold: 30°C)",
		},
		{
			name: "feels_like title casing",
			alert: models.TriggeredAlert{
				Condition: models.ConditionFeelsLike, CurrentValue: 34, Threshold: 32,
			},
			want: "Feels Like is 34°C (threshold: 32°C)",
		},
		{
			name: "pressure",
			alert: models.TriggeredAlert{
				Condition: models.ConditionPressure, CurrentValue: 990, Threshold: 1000,
			},
			want: "Pressure is 990 hPa (threshold: 1000 hPa)",
		},
		{
			name: "humidity",
			alert: models.TriggeredAlert{
				Condition: models.ConditionHumidity, CurrentValue: 85, Threshold: 80,
			},
			want: "Humidity is 85% (threshold: 80%)",
		},
		{
			name: "wind",
			alert: models.TriggeredAlert{
				Condition: models.ConditionWind, CurrentValue: 18.5, Threshold: 15,
			},
			want: "Wind is 18.5 m/s (threshold: 15 m/s)",
		},
		{
			name: "precipitation",
			alert: models.TriggeredAlert{
				Condition: models.ConditionPrecipitation, CurrentValue: 3.5, Threshold: 3,
			},
			want: "Precipitation is 3.5 mm (threshold: 3 mm)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMessage(tt.alert))
		})
	}
}

func TestLogNotifier_Send(t *testing.T) {
	notifier := NewLogNotifier(zap.NewNop())
	err := notifier.Send(models.TriggeredAlert{
		Location:  "Springfield",
		Condition: models.ConditionTemperature,
		Message:   "Heat warning",
	})
	assert.NoError(t, err)
}
