package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"weatheralert/internal/models"
)

func clock(t *testing.T, hhmm string) time.Time {
	t.Helper()
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		t.Fatalf("bad test clock %q: %v", hhmm, err)
	}
	return time.Date(2025, 6, 15, parsed.Hour(), parsed.Minute(), 0, 0, time.Local)
}

func TestInQuietHours_Overnight(t *testing.T) {
	qh := models.QuietHours{Enabled: true, Start: "22:00", End: "07:00"}

	tests := []struct {
		now   string
		quiet bool
	}{
		{"23:30", true},
		{"03:00", true},
		{"06:59", true},
		{"07:00", true}, // inclusive end
		{"07:01", false},
		{"21:59", false},
		{"22:00", true}, // inclusive start
	}

	for _, tt := range tests {
		t.Run(tt.now, func(t *testing.T) {
			got := InQuietHours(clock(t, tt.now), qh, zap.NewNop())
			assert.Equal(t, tt.quiet, got)
		})
	}
}

func TestInQuietHours_SameDay(t *testing.T) {
	qh := models.QuietHours{Enabled: true, Start: "09:00", End: "17:00"}

	tests := []struct {
		now   string
		quiet bool
	}{
		{"09:00", true}, // inclusive start
		{"12:00", true},
		{"17:00", true}, // inclusive end
		{"08:59", false},
		{"17:01", false},
	}

	for _, tt := range tests {
		t.Run(tt.now, func(t *testing.T) {
			got := InQuietHours(clock(t, tt.now), qh, zap.NewNop())
			assert.Equal(t, tt.quiet, got)
		})
	}
}

func TestInQuietHours_Disabled(t *testing.T) {
	qh := models.QuietHours{Enabled: false, Start: "00:00", End: "23:59"}
	assert.False(t, InQuietHours(clock(t, "12:00"), qh, zap.NewNop()))
}

func TestInQuietHours_MalformedFailsOpen(t *testing.T) {
	// Bad config must never swallow alerts: the gate treats unparseable
	// times as not-quiet.
	tests := []models.QuietHours{
		{Enabled: true, Start: "25:00", End: "07:00"},
		{Enabled: true, Start: "22:00", End: "late"},
		{Enabled: true, Start: "", End: "07:00"},
	}

	for _, qh := range tests {
		assert.False(t, InQuietHours(clock(t, "23:00"), qh, zap.NewNop()),
			"start=%q end=%q should fail open", qh.Start, qh.End)
	}
}
