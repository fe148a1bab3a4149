package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"weatheralert/internal/alerts"
	"weatheralert/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS weather_data (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	location TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS alerts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	alert_id TEXT NOT NULL,
	location TEXT NOT NULL,
	condition TEXT NOT NULL,
	threshold REAL NOT NULL,
	current_value REAL NOT NULL,
	message TEXT NOT NULL,
	timestamp TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_weather_location_time ON weather_data (location, timestamp);
CREATE INDEX IF NOT EXISTS idx_alerts_location_time ON alerts (location, timestamp);
`

// Store archives snapshots and triggered alerts in SQLite. The engine
// itself never touches durable storage; the scheduler writes here after
// each evaluation.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open creates or opens the database at path and ensures the schema
// exists. Timestamps are normalized to UTC and stored as RFC 3339
// strings; with a single offset they compare correctly as text.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// SQLite performs best with a single write connection. WAL enables
	// concurrent readers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	// modernc.org/sqlite requires SQL statements for pragmas, not DSN params.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("Database initialized", zap.String("path", path))

	return &Store{db: db, logger: logger}, nil
}

// StoreSnapshot archives one snapshot for a location as a JSON document.
func (s *Store) StoreSnapshot(ctx context.Context, location string, snap *models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	ts := snap.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO weather_data (location, timestamp, data) VALUES (?, ?, ?)`,
		location, ts.UTC().Format(time.RFC3339), string(data))
	if err != nil {
		return fmt.Errorf("storing snapshot for %s: %w", location, err)
	}

	s.logger.Debug("Stored weather snapshot",
		zap.String("location", location),
		zap.Time("timestamp", ts))
	return nil
}

// Snapshots returns the archived snapshots for a location from the last
// N days, most recent first.
func (s *Store) Snapshots(ctx context.Context, location string, days int) ([]models.Snapshot, error) {
	cutoff := time.Now().AddDate(0, 0, -days).UTC().Format(time.RFC3339)

	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM weather_data WHERE location = ? AND timestamp > ? ORDER BY timestamp DESC`,
		location, cutoff)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots for %s: %w", location, err)
	}
	defer rows.Close()

	var result []models.Snapshot
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var snap models.Snapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			s.logger.Warn("Skipping undecodable snapshot row",
				zap.String("location", location),
				zap.Error(err))
			continue
		}
		result = append(result, snap)
	}
	return result, rows.Err()
}

// StoreAlert archives one triggered alert.
func (s *Store) StoreAlert(ctx context.Context, alert models.TriggeredAlert) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts (alert_id, location, condition, threshold, current_value, message, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		alert.ID, alert.Location, string(alert.Condition), alert.Threshold,
		alert.CurrentValue, alert.Message, alert.Timestamp.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("storing alert for %s: %w", alert.Location, err)
	}

	s.logger.Debug("Stored alert",
		zap.String("location", alert.Location),
		zap.String("condition", string(alert.Condition)))
	return nil
}

// Alerts returns triggered alerts from the last N days, most recent
// first. An empty location returns alerts for every location.
func (s *Store) Alerts(ctx context.Context, location string, days int) ([]models.TriggeredAlert, error) {
	cutoff := time.Now().AddDate(0, 0, -days).UTC().Format(time.RFC3339)

	query := `SELECT alert_id, location, condition, threshold, current_value, message, timestamp
		FROM alerts WHERE timestamp > ?`
	args := []any{cutoff}
	if location != "" {
		query += ` AND location = ?`
		args = append(args, location)
	}
	query += ` ORDER BY timestamp DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	var result []models.TriggeredAlert
	for rows.Next() {
		var a models.TriggeredAlert
		var cond, ts string
		if err := rows.Scan(&a.ID, &a.Location, &cond, &a.Threshold, &a.CurrentValue, &a.Message, &ts); err != nil {
			return nil, err
		}
		a.Condition = models.Condition(cond)
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			a.Timestamp = t
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// Stats summarizes one condition at a location over a period.
type Stats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// Statistics computes min/max/avg for a condition from the archived
// snapshots of the last N days. Count is zero when no snapshot carried a
// reading for the condition; Min/Max/Avg are meaningless in that case.
func (s *Store) Statistics(ctx context.Context, location string, cond models.Condition, days int) (Stats, error) {
	snaps, err := s.Snapshots(ctx, location, days)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	var sum float64
	for i := range snaps {
		value, ok := alerts.ExtractValue(&snaps[i], cond)
		if !ok {
			continue
		}
		if stats.Count == 0 || value < stats.Min {
			stats.Min = value
		}
		if stats.Count == 0 || value > stats.Max {
			stats.Max = value
		}
		sum += value
		stats.Count++
	}
	if stats.Count > 0 {
		stats.Avg = sum / float64(stats.Count)
	}
	return stats, nil
}

// CleanupOlderThan deletes snapshots and alerts older than N days and
// returns the number of rows removed.
func (s *Store) CleanupOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days).UTC().Format(time.RFC3339)

	var removed int64
	for _, table := range []string{"weather_data", "alerts"} {
		res, err := s.db.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE timestamp < ?`, table), cutoff)
		if err != nil {
			return removed, fmt.Errorf("cleaning up %s: %w", table, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			removed += n
		}
	}

	if removed > 0 {
		s.logger.Info("Cleaned up old records",
			zap.Int64("rows", removed),
			zap.Int("retention_days", days))
	}
	return removed, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
