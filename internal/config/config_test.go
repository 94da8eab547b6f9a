package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "public", cfg.Server.StaticDir)
	assert.Equal(t, StorageMemory, cfg.Storage.Type)
	assert.Equal(t, 30*time.Minute, cfg.Rooms.IdleTTL)
	assert.Equal(t, ":3000", cfg.Addr())
}

func TestLoadEnvOverrides(t *testing.T) {
	cfg, err := load(envOf(map[string]string{
		"PORT":                "8080",
		"HOST":                "127.0.0.1",
		"STATIC_DIR":          "/srv/golf",
		"STORAGE_TYPE":        "redis",
		"REDIS_URL":           "redis://cache:6379/1",
		"APP_ENV":             "prod",
		"LOG_BACKEND":         "zap",
		"LOG_LEVEL":           "debug",
		"ROOM_IDLE_TTL":       "2h",
		"ROOM_SWEEP_INTERVAL": "5m",
		"BCRYPT_COST":         "12",
	}))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.Equal(t, "/srv/golf", cfg.Server.StaticDir)
	assert.Equal(t, StorageRedis, cfg.Storage.Type)
	assert.Equal(t, "redis://cache:6379/1", cfg.Storage.RedisURL)
	assert.Equal(t, "prod", cfg.Logging.Env)
	assert.Equal(t, "zap", cfg.Logging.Backend)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 2*time.Hour, cfg.Rooms.IdleTTL)
	assert.Equal(t, 5*time.Minute, cfg.Rooms.SweepInterval)
	assert.Equal(t, 12, cfg.Rooms.BcryptCost)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 4000
  staticDir: assets
logging:
  backend: zap
rooms:
  idleTtl: 10m
`), 0o600))

	cfg, err := load(envOf(map[string]string{
		"CONFIG_PATH": path,
		"PORT":        "4001",
	}))
	require.NoError(t, err)

	assert.Equal(t, 4001, cfg.Server.Port)
	assert.Equal(t, "assets", cfg.Server.StaticDir)
	assert.Equal(t, "zap", cfg.Logging.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Rooms.IdleTTL)
	// untouched keys keep their defaults
	assert.Equal(t, time.Minute, cfg.Rooms.SweepInterval)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"port not a number", map[string]string{"PORT": "abc"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"unknown storage", map[string]string{"STORAGE_TYPE": "postgres"}},
		{"redis without url", map[string]string{"STORAGE_TYPE": "redis"}},
		{"bad duration", map[string]string{"ROOM_IDLE_TTL": "soon"}},
		{"negative duration", map[string]string{"ROOM_SWEEP_INTERVAL": "-1m"}},
		{"bcrypt cost too low", map[string]string{"BCRYPT_COST": "2"}},
		{"missing file", map[string]string{"CONFIG_PATH": "/nonexistent/config.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(envOf(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := load(envOf(map[string]string{"CONFIG_PATH": path}))
	assert.Error(t, err)
}
