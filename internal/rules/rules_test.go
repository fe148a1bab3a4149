package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"weatheralert/internal/models"
)

const sampleConfig = `{
  "locations": [
    {
      "name": "Springfield",
      "latitude": 39.78,
      "longitude": -89.65,
      "alerts": [
        {"condition": "temperature", "operator": "above", "value": 30, "message": "Heat warning"},
        {"condition": "wind", "operator": "above", "value": 15, "message": "Wind warning"}
      ]
    }
  ],
  "preferences": {
    "quiet_hours": {"enabled": true, "start": "22:00", "end": "07:00"},
    "check_interval_minutes": 30,
    "history_days": 30
  }
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	rs, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	require.Len(t, rs.Locations, 1)
	loc := rs.Locations[0]
	assert.Equal(t, "Springfield", loc.Name)
	require.Len(t, loc.Alerts, 2)
	assert.Equal(t, models.ConditionTemperature, loc.Alerts[0].Condition)
	assert.Equal(t, models.OperatorAbove, loc.Alerts[0].Operator)
	assert.Equal(t, 30.0, loc.Alerts[0].Threshold)
	assert.Equal(t, "Heat warning", loc.Alerts[0].Message)

	assert.True(t, rs.Preferences.QuietHours.Enabled)
	assert.Equal(t, "22:00", rs.Preferences.QuietHours.Start)
	assert.Equal(t, 30, rs.Preferences.CheckIntervalMinutes)
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_InvalidJSONIsFatal(t *testing.T) {
	_, err := Load(writeConfig(t, "{not json"))
	assert.Error(t, err)
}

func TestStore_RefreshSwapsRuleset(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	store, err := NewStore(path, zap.NewNop())
	require.NoError(t, err)

	before := store.Current()
	require.NotNil(t, before.FindLocation("Springfield"))

	updated := `{
	  "locations": [{"name": "Shelbyville", "latitude": 1, "longitude": 2, "alerts": []}],
	  "preferences": {"quiet_hours": {"enabled": false, "start": "", "end": ""}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	require.NoError(t, store.Refresh())

	after := store.Current()
	assert.Nil(t, after.FindLocation("Springfield"))
	assert.NotNil(t, after.FindLocation("Shelbyville"))

	// The old reference is untouched; an in-flight evaluation keeps
	// reading the ruleset it started with.
	assert.NotNil(t, before.FindLocation("Springfield"))
}

func TestStore_FailedRefreshKeepsPreviousRules(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	store, err := NewStore(path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("broken"), 0o644))
	assert.Error(t, store.Refresh())
	assert.NotNil(t, store.Current().FindLocation("Springfield"))
}

func TestFindLocation_TrimsWhitespace(t *testing.T) {
	rs := &models.RuleSet{
		Locations: []models.Location{{Name: " Springfield "}},
	}

	assert.NotNil(t, rs.FindLocation("Springfield"))
	assert.NotNil(t, rs.FindLocation("Springfield "))
	assert.Nil(t, rs.FindLocation("springfield"), "lookup is case-sensitive")
}
