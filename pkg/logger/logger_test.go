package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modsort.log")

	log, err := New(Config{Level: "debug", Format: "json", OutputFile: path})
	require.NoError(t, err)
	log.Debug("sorted")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	require.Equal(t, "DEBUG", entry["level"])
	require.Equal(t, "sorted", entry["msg"])
	require.Equal(t, "modsort", entry["service"])
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modsort.log")

	log, err := New(Config{Level: "chatty", OutputFile: path})
	require.NoError(t, err)
	log.Debug("hidden")
	log.Info("shown")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "hidden")
	require.Contains(t, string(data), "shown")
}

func TestNew_UnwritableFile(t *testing.T) {
	_, err := New(Config{OutputFile: filepath.Join(t.TempDir(), "missing", "x.log")})
	require.Error(t, err)
}

func TestNamed(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	parent := zap.New(core)

	Named(parent, "catalog").Info("table created")
	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "catalog", entries[0].LoggerName)

	// A nil parent gives a usable no-op logger.
	nop := Named(nil, "resolution")
	require.NotNil(t, nop)
	require.NotPanics(t, func() { nop.Info("dropped") })
	require.False(t, nop.Core().Enabled(zap.ErrorLevel))
}
