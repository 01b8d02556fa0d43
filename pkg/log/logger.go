// Package log provides the slog-based logger shared by all rcad packages.
//
// Library code logs through L(), which discards everything until a program
// calls Init or Set. Commands call Init once with Options built from the
// configuration file.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization.
//
// If File is set, records are also written as JSON to a rotating file.
// Defaults: info level, text format on stderr, no source locations.
type Options struct {
	Level     string // debug|info|warn|error
	Format    string // "text" or "json"
	AddSource bool
	File      string
}

// discardHandler drops every record. Enabled returns false so callers skip
// attribute formatting entirely.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(discardHandler{}))
}

// L returns the active logger.
func L() *slog.Logger {
	return current.Load()
}

// Set replaces the active logger. Passing nil restores the silent default.
func Set(l *slog.Logger) {
	if l == nil {
		l = slog.New(discardHandler{})
	}
	current.Store(l)
}

// Init builds a logger from opts, installs it and returns it.
func Init(opts Options) *slog.Logger {
	l := New(os.Stderr, opts)
	Set(l)
	return l
}

// New builds a logger writing to w (and to opts.File when set) without
// installing it.
func New(w io.Writer, opts Options) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level), AddSource: opts.AddSource}

	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(w, hopts)
	} else {
		console = slog.NewTextHandler(w, hopts)
	}

	h := console
	if strings.TrimSpace(opts.File) != "" {
		rot := &lj.Logger{Filename: opts.File, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		h = fanout{console, slog.NewJSONHandler(rot, hopts)}
	}
	return slog.New(h).With(slog.String("app", "rcad"))
}

// WithComponent returns the active logger tagged with a component name.
func WithComponent(name string) *slog.Logger {
	return L().With(slog.String("component", name))
}

// ParseLevel converts a level name to a slog.Level. Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, lvl slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, lvl) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
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
