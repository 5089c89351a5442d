package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// SlogManager builds the planner's slog pipeline: console plus an
// optional session log file, an optional OTel bridge, and an optional
// context handler that stamps battle-clock attributes on each record.
type SlogManager struct {
	logger      *slog.Logger
	logProvider *sdklog.LoggerProvider
}

func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// Setup wires the logging sinks. It is called twice on startup: once
// before config is loaded with only a level, then again with the
// session file and OTel provider. Passing nil disables a sink.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider, ctxProvider ContextProvider) {
	m.logProvider = provider

	// A failed open can hand us a typed-nil *os.File, which would
	// pass the interface nil check below and then error on every
	// record. Treat it as no file sink.
	if f, ok := file.(*os.File); ok && f == nil {
		file = nil
	}

	opts := handlerOptions(parseLevel(level))

	sinks := []slog.Handler{slog.NewTextHandler(os.Stdout, opts)}
	if file != nil {
		sinks = append(sinks, slog.NewTextHandler(file, opts))
	}
	if provider != nil {
		sinks = append(sinks, otelslog.NewHandler("canyon-planner", otelslog.WithLoggerProvider(provider)))
	}

	var handler slog.Handler = NewMultiHandler(sinks...)
	if ctxProvider != nil {
		handler = NewContextHandler(handler, ctxProvider)
	}

	m.logger = slog.New(handler)
	m.logger.Info("Logging initialized", "level", level)
}

// handlerOptions normalizes record timestamps to RFC3339 UTC so the
// session file and console agree regardless of host timezone.
func handlerOptions(lvl slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}
}

// Logger returns the configured logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush pushes any buffered OTel records out.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider == nil {
		return nil
	}
	return m.logProvider.ForceFlush(ctx)
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
