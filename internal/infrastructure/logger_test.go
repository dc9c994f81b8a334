package infrastructure

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

	"github.com/piyushmakhija5/ai-playground/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestNewLogger_InjectsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "debug", Output: "console"}, &buf)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "trace-123")
	logger.With(slog.String("component", "test")).InfoContext(ctx, "hello", slog.Int("rows", 3))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "trace-123", entry["trace_id"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, float64(3), entry["rows"])
}

func TestNewLogger_FileOutput(t *testing.T) {
	t.Cleanup(func() { _ = CloseLogFile() })

	path := filepath.Join(t.TempDir(), "nested", "app.log")
	var console bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Output: "both", FilePath: path}, &console)
	require.NoError(t, err)

	logger.Debug("dropped")
	logger.Warn("kept")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"kept"`)
	assert.NotContains(t, string(data), "dropped")
	assert.Equal(t, string(data), console.String())
}

func TestInitializeLogger_Once(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "console"})
	require.NoError(t, err)
	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, GetLogger())
}

func TestEnsureTraceID(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)

	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)), "existing trace IDs are kept")
	assert.Empty(t, GetTraceID(context.Background()))
}
