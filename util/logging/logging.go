// Package logging builds the process slog logger.
package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	AppLogFile   = "app.log"
	ErrorLogFile = "error.log"
)

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// New returns a JSON logger writing to out. When dir is non-empty every
// record is also appended to dir/app.log and records at error level and
// above to dir/error.log. The returned close func releases the files.
func New(out io.Writer, level slog.Level, dir string) (*slog.Logger, func() error, error) {
	opts := &slog.HandlerOptions{Level: level}
	handlers := []slog.Handler{slog.NewJSONHandler(out, opts)}
	if dir == "" {
		return slog.New(handlers[0]), func() error { return nil }, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	app, err := openAppend(filepath.Join(dir, AppLogFile))
	if err != nil {
		return nil, nil, err
	}
	errLog, err := openAppend(filepath.Join(dir, ErrorLogFile))
	if err != nil {
		app.Close()
		return nil, nil, err
	}

	handlers = append(handlers,
		slog.NewJSONHandler(app, opts),
		slog.NewJSONHandler(errLog, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	closeFn := func() error { return errors.Join(app.Close(), errLog.Close()) }
	return slog.New(fanout(handlers)), closeFn, nil
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
