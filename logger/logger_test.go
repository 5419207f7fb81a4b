package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassbeaver/gdispatch/config"
	"github.com/bassbeaver/gdispatch/logger"
)

func TestNewWithWriter_JSON(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	log := logger.NewWithWriter(buffer, config.LoggingConfig{Level: "debug", Format: "json"})
	log.Debug("matched", logger.Route("home"), logger.RequestID(""), logger.Error(nil), logger.Status(200))

	entry := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	assert.Equal(t, "matched", entry["msg"])
	assert.Equal(t, "home", entry["route"])
	assert.Equal(t, float64(200), entry["status"])
	assert.NotContains(t, entry, "request_id")
	assert.NotContains(t, entry, "error")
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	log := logger.NewWithWriter(buffer, config.LoggingConfig{Level: "warn", Format: "text"})
	log.Info("hidden")
	log.Warn("shown", logger.Error(errors.New("boom")))

	assert.NotContains(t, buffer.String(), "hidden")
	assert.Contains(t, buffer.String(), "shown")
	assert.Contains(t, buffer.String(), "boom")
}

func TestNewWithWriter_Console(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	log := logger.NewWithWriter(buffer, config.LoggingConfig{Format: "console"})
	log.Info("booted", logger.Command("routes:list"))

	assert.Contains(t, buffer.String(), "booted")
	assert.Contains(t, buffer.String(), "routes:list")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("whatever"))
}

func TestNope(t *testing.T) {
	t.Parallel()

	log := logger.Nope()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
	assert.Equal(t, slog.DiscardHandler, log.With("key", "value").WithGroup("group").Handler())
}
