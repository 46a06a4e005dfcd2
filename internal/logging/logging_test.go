package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ng-daniel/depresjon-go/internal/conf"
)

// These tests mutate the package-level loggers, so they do not run in parallel.

func TestSetOutputRoutesStructuredJSON(t *testing.T) {
	var structured, human bytes.Buffer
	SetOutput(&structured, &human)

	Info("subjects imported", "count", 55)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(structured.Bytes(), &entry))
	assert.Equal(t, "subjects imported", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, float64(55), entry["count"])
	assert.Empty(t, human.String())
}

func TestForServiceAddsServiceAttribute(t *testing.T) {
	var structured, human bytes.Buffer
	SetOutput(&structured, &human)

	logger := ForService("datastore")
	require.NotNil(t, logger)
	logger.Warn("slow query", "duration_ms", 1200)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(structured.Bytes(), &entry))
	assert.Equal(t, "datastore", entry["service"])
	assert.Equal(t, "WARN", entry["level"])
}

func TestCustomLevelNames(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, handlerOptions(LevelTrace)))

	logger.Log(context.Background(), LevelTrace, "fine-grained detail")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "TRACE", entry["level"])
}

func TestTraceFilteredBelowDebug(t *testing.T) {
	var structured, human bytes.Buffer
	SetOutput(&structured, &human)

	// SetOutput configures the structured handler at debug level
	Trace("invisible")
	assert.Empty(t, structured.String())
}

func TestFileLoggerWritesJSONWithService(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "main.log")
	logConf := conf.LogConfig{
		Enabled:  true,
		Path:     logPath,
		Rotation: conf.RotationDaily,
		MaxSize:  1048576,
	}

	logger, closeFunc, err := NewFileLogger(logPath, "main", slog.LevelInfo, logConf)
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("import finished", "subjects", 55)
	require.NoError(t, closeFunc())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "import finished", entry["msg"])
	assert.Equal(t, "main", entry["service"])
	assert.Equal(t, float64(55), entry["subjects"])
}

func TestFileLoggerFiltersBelowLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "api.log")

	logger, closeFunc, err := NewFileLogger(logPath, "api", slog.LevelInfo, conf.LogConfig{Rotation: conf.RotationDaily})
	require.NoError(t, err)

	logger.Debug("route registered")
	require.NoError(t, closeFunc())

	data, err := os.ReadFile(logPath)
	if err == nil {
		assert.Empty(t, data)
	} else {
		// lumberjack only creates the file on first write
		assert.True(t, os.IsNotExist(err))
	}
}
