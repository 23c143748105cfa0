package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "analysis: {}\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Analysis.PreGameOffsetMinutes)
	assert.Equal(t, 4, cfg.Analysis.LookbackWeeks)
	assert.Equal(t, 0.01, cfg.Analysis.MinVolume)
	assert.Equal(t, "https://clob.polymarket.com", cfg.API.CLOBBase)
	assert.Equal(t, "https://gamma-api.polymarket.com", cfg.API.GammaBase)
	assert.Equal(t, "pregame.db", cfg.Storage.DSN)
	assert.Equal(t, "epl_matches.csv", cfg.Output.CSVPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	assert.Equal(t, 5*time.Minute, cfg.PreGameOffset())
	assert.Equal(t, 4*7*24*time.Hour, cfg.Lookback())
}

func TestLoad_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
analysis:
  pre_game_offset_minutes: 10
  lookback_weeks: 2
  min_volume: 5.0
api:
  clob_base: "http://localhost:8080"
storage:
  dsn: ":memory:"
log:
  level: "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.PreGameOffset())
	assert.Equal(t, 2*7*24*time.Hour, cfg.Lookback())
	assert.Equal(t, 5.0, cfg.Analysis.MinVolume)
	assert.Equal(t, "http://localhost:8080", cfg.API.CLOBBase)
	assert.Equal(t, ":memory:", cfg.Storage.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "json")

	path := writeConfig(t, "log: {level: info, format: text}\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "analysis: [not a map\n")
	_, err := Load(path)
	assert.Error(t, err)
}
