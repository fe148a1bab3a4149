package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"

	"weatheralert/internal/models"
)

// Load reads and parses the alert configuration document. A missing or
// unparseable file is fatal to the caller: running with a silently empty
// ruleset would disable every alert without anyone noticing.
func Load(path string) (*models.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules config %q: %w", path, err)
	}

	var rs models.RuleSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing rules config %q: %w", path, err)
	}

	return &rs, nil
}

// Store holds the active RuleSet behind an atomic pointer so a refresh
// never mutates a ruleset an evaluation is reading. Evaluations grab the
// current reference once and use it for the whole call.
type Store struct {
	path   string
	logger *zap.Logger
	active atomic.Pointer[models.RuleSet]
}

// NewStore loads the initial configuration from path. The initial load
// failing is a startup error.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		logger: logger,
	}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the active ruleset. Never nil after NewStore succeeds.
func (s *Store) Current() *models.RuleSet {
	return s.active.Load()
}

// Refresh re-reads the configuration file and atomically swaps in the new
// ruleset. On failure the previous ruleset stays active.
func (s *Store) Refresh() error {
	rs, err := Load(s.path)
	if err != nil {
		return err
	}

	s.active.Store(rs)

	names := make([]string, 0, len(rs.Locations))
	for _, loc := range rs.Locations {
		names = append(names, loc.Name)
	}
	s.logger.Info("Rules configuration loaded",
		zap.String("path", s.path),
		zap.Strings("locations", names))

	return nil
}
