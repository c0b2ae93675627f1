package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, Config{Level: "info", Format: "json"})
	log.Debug("hidden")
	log.Info("fetched", "total", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "fetched", record["msg"])
	assert.Equal(t, float64(3), record["total"])
}

func TestTextAndTerminalFormats(t *testing.T) {
	for _, format := range []string{"text", "terminal", ""} {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, Config{Level: "debug", Format: format})
		log.Debug("skipping filter", "field", "Age")
		assert.Contains(t, buf.String(), "skipping filter", format)
		assert.Contains(t, buf.String(), "Age", format)
	}
}
