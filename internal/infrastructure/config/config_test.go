package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	// Arrange
	path := writeConfigFile(t, "{}\n")

	// Act
	cfg, err := LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "exact", cfg.Solver.Strategy)
	assert.Equal(t, 1, cfg.Solver.Workers)
	assert.True(t, cfg.Solver.Canonicalize)
	assert.Equal(t, 1.0, cfg.Playback.TickDuration)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "minehaul.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := writeConfigFile(t, `
solver:
  strategy: greedy
  workers: 4
  max_nodes: 100000
  timeout: 30s
  canonicalize: false
playback:
  tick_duration: 0.5
  unload_bays: 2
  pace_per_second: 10
logging:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "greedy", cfg.Solver.Strategy)
	assert.Equal(t, 4, cfg.Solver.Workers)
	assert.Equal(t, int64(100000), cfg.Solver.MaxNodes)
	assert.Equal(t, 30*time.Second, cfg.Solver.Timeout)
	assert.False(t, cfg.Solver.Canonicalize)
	assert.Equal(t, 0.5, cfg.Playback.TickDuration)
	assert.Equal(t, 2, cfg.Playback.UnloadBays)
	assert.Equal(t, 10.0, cfg.Playback.PacePerSecond)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "solver:\n  workers: 2\n")
	t.Setenv("MH_SOLVER_WORKERS", "8")
	t.Setenv("MH_DATABASE_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgresql://mh:secret@db:5432/minehaul")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Solver.Workers)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "postgresql://mh:secret@db:5432/minehaul", cfg.Database.URL)
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "unknown strategy", body: "solver:\n  strategy: annealing\n", field: "Solver.Strategy"},
		{name: "negative tick", body: "playback:\n  tick_duration: -1\n", field: "Playback.TickDuration"},
		{name: "negative bays", body: "playback:\n  unload_bays: -3\n", field: "Playback.UnloadBays"},
		{name: "bad log level", body: "logging:\n  level: chatty\n", field: "Logging.Level"},
		{name: "file output without path", body: "logging:\n  output: file\n", field: "Logging.FilePath"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, tt.body))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadConfig_MissingExplicitFileFails(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigOrDefault_FallsBack(t *testing.T) {
	cfg := LoadConfigOrDefault(writeConfigFile(t, "solver:\n  strategy: annealing\n"))
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestUserConfigHandler_RoundTrip(t *testing.T) {
	handler, err := NewUserConfigHandlerAt(t.TempDir())
	require.NoError(t, err)

	cfg, err := handler.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.DefaultScenario)

	require.NoError(t, handler.SetDefaultScenario("scenarios/pit.yaml"))
	cfg, err = handler.Load()
	require.NoError(t, err)
	assert.Equal(t, "scenarios/pit.yaml", cfg.DefaultScenario)

	require.NoError(t, handler.ClearDefaultScenario())
	cfg, err = handler.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.DefaultScenario)
}
