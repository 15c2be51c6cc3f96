package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []logEntry {
	t.Helper()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry logEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	lg := New("WARN", &buf)

	lg.Debug("debug message")
	lg.Info("info message")
	lg.Warn("warn message")
	lg.Error("error message")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0].Level)
	assert.Equal(t, "warn message", entries[0].Message)
	assert.Equal(t, "ERROR", entries[1].Level)
}

func TestLogger_ParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{" warn ", WARN},
		{"ERROR", ERROR},
		{"FATAL", ERROR},
		{"nonsense", INFO},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestLogger_TaskFields(t *testing.T) {
	var buf bytes.Buffer
	lg := New("DEBUG", &buf)

	lg.Task(7, "task created", map[string]any{"complexity": "high"})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "task created", entries[0].Message)
	assert.Equal(t, float64(7), entries[0].Fields["task_id"])
	assert.Equal(t, "task", entries[0].Fields["type"])
	assert.Equal(t, "high", entries[0].Fields["complexity"])
}

func TestLogger_HTTPFields(t *testing.T) {
	var buf bytes.Buffer
	lg := New("INFO", &buf)

	lg.HTTP("DELETE", "/tasks/1", 204, 3*time.Millisecond, map[string]any{"request_id": "abc"})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "HTTP request completed", entries[0].Message)
	assert.Equal(t, "DELETE", entries[0].Fields["http_method"])
	assert.Equal(t, float64(204), entries[0].Fields["http_status"])
	assert.Equal(t, "abc", entries[0].Fields["request_id"])
}

func TestLogger_NoFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	lg := New("INFO", &buf)

	lg.Info("plain")

	assert.Assert(t, !strings.Contains(buf.String(), `"fields"`))
}
