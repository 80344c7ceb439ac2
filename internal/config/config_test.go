package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blackwell-systems/healthwatch/internal/completion"
	"github.com/blackwell-systems/healthwatch/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, completion.DefaultAPIKeyHeader, cfg.Completion.APIKeyHeader)
	assert.Equal(t, completion.DefaultSystemPrompt, cfg.Completion.SystemPrompt)
	assert.Equal(t, time.Duration(0), cfg.Completion.Timeout)
	assert.Equal(t, health.DefaultWindowMonths, cfg.Query.WindowMonths)
	assert.Equal(t, health.DefaultSampleLimit, cfg.Query.SampleLimit)
	assert.Equal(t, health.DefaultDayLayout, cfg.Calories.DayLayout)
	assert.True(t, cfg.Output.Color)
	assert.Equal(t, DefaultDBName, filepath.Base(cfg.DBPath))
	err = cfg.RequireEndpoint()
	require.Error(t, err)
	assert.Contains(t, err.Error(), filepath.Join(ConfigDir(), "config.yaml"))
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_path: /tmp/hw-test.db
completion:
  endpoint: https://llm.example.com/v1/chat
  api_key_header: x-api-key
  timeout: 45s
query:
  sample_limit: 100
calories:
  timezone: Europe/Berlin
  day_layout: "2006-01-02"
`), 0o644))
	t.Setenv("HEALTHWATCH_COMPLETION_API_KEY", "from-env")
	t.Setenv("HEALTHWATCH_COMPLETION_MODEL", "tiny")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/hw-test.db", cfg.DBPath)
	assert.Equal(t, "https://llm.example.com/v1/chat", cfg.Completion.Endpoint)
	assert.Equal(t, "x-api-key", cfg.Completion.APIKeyHeader)
	assert.Equal(t, "from-env", cfg.Completion.APIKey)
	assert.Equal(t, "tiny", cfg.Completion.Model)
	assert.Equal(t, 45*time.Second, cfg.Completion.Timeout)
	assert.Equal(t, 100, cfg.Query.SampleLimit)
	assert.Equal(t, health.DefaultWindowMonths, cfg.Query.WindowMonths)
	assert.NoError(t, cfg.RequireEndpoint())

	loc, err := cfg.Calories.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_RejectsNonPositiveLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("query:\n  sample_limit: 0\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "sample_limit")
}

func TestCaloriesLocation(t *testing.T) {
	loc, err := Calories{Timezone: "Local"}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	_, err = Calories{Timezone: "Mars/Olympus"}.Location()
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "y.db"), expandPath("~/x/y.db"))
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))
}
