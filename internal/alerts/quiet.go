package alerts

import (
	"time"

	"go.uber.org/zap"

	"weatheralert/internal/models"
)

// InQuietHours reports whether now falls inside the configured quiet
// window. Comparison is at minute resolution on wall-clock time.
//
// Overnight windows (start > end, e.g. 22:00-07:00) are quiet when
// now >= start or now <= end; same-day windows when start <= now <= end.
// Boundaries are inclusive on both ends in both branches.
//
// A malformed start or end time fails open: bad config must never
// silently swallow alerts, so the gate logs and reports not-quiet.
func InQuietHours(now time.Time, qh models.QuietHours, logger *zap.Logger) bool {
	if !qh.Enabled {
		return false
	}

	start, err := parseClock(qh.Start)
	if err != nil {
		logger.Error("Invalid quiet hours start time, treating as not quiet",
			zap.String("start", qh.Start),
			zap.Error(err))
		return false
	}

	end, err := parseClock(qh.End)
	if err != nil {
		logger.Error("Invalid quiet hours end time, treating as not quiet",
			zap.String("end", qh.End),
			zap.Error(err))
		return false
	}

	minute := now.Hour()*60 + now.Minute()

	if start > end {
		// Overnight window, e.g. 22:00-07:00.
		return minute >= start || minute <= end
	}
	return minute >= start && minute <= end
}

// parseClock parses an "HH:MM" wall-clock string into minutes since
// midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
