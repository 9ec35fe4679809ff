package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
)

// MultiHandler sends each record to every handler that accepts its level.
// Nil handlers are ignored; with none left the result discards everything.
func MultiHandler(handlers ...slog.Handler) slog.Handler {
	sinks := slices.DeleteFunc(slices.Clone(handlers), func(h slog.Handler) bool { return h == nil })
	if len(sinks) == 0 {
		return slog.NewTextHandler(io.Discard, nil)
	}
	return fanout{sinks: sinks}
}

type fanout struct {
	sinks []slog.Handler
}

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	return slices.ContainsFunc(f.sinks, func(h slog.Handler) bool { return h.Enabled(ctx, level) })
}

func (f fanout) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range f.sinks {
		if h.Enabled(ctx, record.Level) {
			errs = append(errs, h.Handle(ctx, record.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f fanout) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f fanout) derive(fn func(slog.Handler) slog.Handler) fanout {
	next := make([]slog.Handler, len(f.sinks))
	for i, h := range f.sinks {
		next[i] = fn(h)
	}
	return fanout{sinks: next}
}
