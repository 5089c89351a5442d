package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler fans one record out to several destinations: the
// console, the session log file, and the OTel bridge when enabled.
// Per-destination level filtering stays with each inner handler.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler builds a fan-out handler. Nil entries are dropped
// so callers can pass optional destinations unconditionally.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	kept := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			kept = append(kept, h)
		}
	}
	return &MultiHandler{handlers: kept}
}

// Enabled reports whether at least one destination wants the level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every destination that accepts its
// level. A failing destination does not starve the others; errors
// are joined afterwards.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &MultiHandler{handlers: m.apply(func(h slog.Handler) slog.Handler {
		return h.WithAttrs(attrs)
	})}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return m
	}
	return &MultiHandler{handlers: m.apply(func(h slog.Handler) slog.Handler {
		return h.WithGroup(name)
	})}
}

func (m *MultiHandler) apply(fn func(slog.Handler) slog.Handler) []slog.Handler {
	out := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		out[i] = fn(h)
	}
	return out
}
