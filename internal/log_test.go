package internal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, LogLevelWarn, "json")

	l.Info("hidden %d", 1)
	l.Debug("hidden")
	l.Warn("shown %s", "warn")
	l.Error("shown error")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "shown warn", entry["message"])
}

func TestLoggerWithAddsField(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, LogLevelInfo, "json").With("stage", "cleaning")
	l.Info("done")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "cleaning", entry["stage"])
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerTo(&buf, LogLevelInfo, "console").Info("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("WARNING"))
	assert.Equal(t, LogLevelTrace, ParseLogLevel(" TRACE "))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("bogus"))
}
