package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetup_WritesToFile(t *testing.T) {
	var fileBuf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&fileBuf, "info", nil, nil)
	m.Logger().Info("hello file")

	assert.Contains(t, fileBuf.String(), "hello file")
	assert.Contains(t, fileBuf.String(), "Logging initialized")
}

func TestSetup_NilFilePointer(t *testing.T) {
	m := NewSlogManager()
	m.Setup((*os.File)(nil), "info", nil, nil)

	// No file sink should be wired: delivering a record must not
	// surface a write error from a dead file handle.
	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "still logging", 0)
	assert.NoError(t, m.Logger().Handler().Handle(context.Background(), rec))
}

func TestSetup_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "debug", nil, nil)

	m.Logger().Debug("debug msg")
	m.Logger().Info("info msg")

	output := buf.String()
	assert.Contains(t, output, "debug msg")
	assert.Contains(t, output, "info msg")
}

func TestSetup_InfoLevel_FiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil, nil)

	m.Logger().Debug("should be filtered")
	m.Logger().Info("should appear")

	output := buf.String()
	assert.NotContains(t, output, "should be filtered")
	assert.Contains(t, output, "should appear")
}

func TestSetup_ReplacesLogger(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	m := NewSlogManager()

	m.Setup(&buf1, "info", nil, nil)
	m.Logger().Info("first")

	m.Setup(&buf2, "info", nil, nil)
	m.Logger().Info("second")

	assert.Contains(t, buf1.String(), "first")
	assert.NotContains(t, buf1.String(), "second", "old file should not receive new logs")
	assert.Contains(t, buf2.String(), "second")
}

func TestSetup_ContextProvider(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil, func() []slog.Attr {
		return []slog.Attr{slog.String("session", "abc123")}
	})

	m.Logger().Info("with context")
	assert.Contains(t, buf.String(), "session=abc123")
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	assert.Equal(t, slog.Default(), m.Logger())
}

func TestFlush_NilProvider(t *testing.T) {
	m := NewSlogManager()
	assert.NoError(t, m.Flush(context.Background()))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestMultiHandler_FansOut(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&buf1, nil),
		nil,
		slog.NewTextHandler(&buf2, nil),
	)
	logger := slog.New(h)
	logger.Info("fan out")

	assert.Contains(t, buf1.String(), "fan out")
	assert.Contains(t, buf2.String(), "fan out")
}

func TestMultiHandler_LevelFiltering(t *testing.T) {
	var debugBuf, errorBuf bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(h)
	logger.Debug("only debug handler")

	assert.Contains(t, debugBuf.String(), "only debug handler")
	assert.Empty(t, errorBuf.String())
}

func TestMultiHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(slog.NewTextHandler(&buf, nil))
	logger := slog.New(h).With("component", "plans")
	logger.Info("attributed")

	assert.Contains(t, buf.String(), "component=plans")
}

func TestLogFilePath(t *testing.T) {
	start := time.Date(2026, time.September, 1, 9, 30, 0, 0, time.UTC)
	got := LogFilePath("logs", "planner", start)
	assert.Equal(t, "logs/planner.20260901_093000.log", got)
}
