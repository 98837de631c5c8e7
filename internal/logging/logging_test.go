package logging

import (
	"bytes"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, "ParseLevel(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseLevel(%q)", tt.in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

var runIDPattern = regexp.MustCompile(`run_id=([0-9a-f-]{36})`)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "stack", "a")
	logger.Error("also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "stack=a")

	ids := runIDPattern.FindAllStringSubmatch(out, -1)
	require.Len(t, ids, 2)
	assert.Equal(t, ids[0][1], ids[1][1], "run_id is stable for one logger")

	var other bytes.Buffer
	second, err := New(&other, "info")
	require.NoError(t, err)
	second.Info("x")
	m := runIDPattern.FindStringSubmatch(other.String())
	require.Len(t, m, 2)
	assert.NotEqual(t, ids[0][1], m[1])
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "chatty")
	assert.Error(t, err)
}
