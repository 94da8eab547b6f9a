package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	tests := []struct {
		raw  string
		want Env
	}{
		{"", EnvDev},
		{"dev", EnvDev},
		{"Production", EnvProd},
		{" prod ", EnvProd},
		{"staging", EnvStage},
		{"preprod", EnvStage},
		{"qa", EnvDev},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEnv(tt.raw))
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestStdBackendDevIsText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Env: EnvDev, Version: "v1", InstanceID: "test-1", Output: &buf})

	logger.Info("hello", slog.String("room", "public"))

	line := buf.String()
	assert.Contains(t, line, "msg=hello")
	assert.Contains(t, line, "room=public")
	assert.Contains(t, line, "service=minigolf")
	assert.Contains(t, line, "instance_id=test-1")
}

func TestStdBackendProdIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Env: EnvProd, Backend: BackendStd, Service: "golf", Output: &buf})

	logger.Warn("careful")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "careful", entry["msg"])
	assert.Equal(t, "golf", entry["service"])
	assert.Equal(t, "prod", entry["env"])
	assert.NotEmpty(t, entry["instance_id"])
}

func TestStdBackendFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Output: &buf})

	logger.Info("quiet")
	logger.Debug("quieter")

	assert.Empty(t, buf.String())
}

func TestZapBackend(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Env: EnvStage, Service: "golf", InstanceID: "i-1", Output: &buf})

	logger.Info("room created", slog.String("room_id", "ABC123"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "room created", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "ABC123", entry["room_id"])
	assert.Equal(t, "golf", entry["service"])
	assert.Equal(t, "i-1", entry["instance_id"])
	assert.Contains(t, entry, "ts")
}

func TestZapBackendFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Backend: BackendZap, Level: slog.LevelError, Output: &buf})

	logger.Warn("ignored")

	assert.Empty(t, buf.String())
}
