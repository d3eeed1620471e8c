// Package logger provides the leveled, tagged logger used throughout
// cirbind. It wraps log/slog the way golangsnmp-gomib's internal/types.Logger
// does (a thin nil-safe struct around *slog.Logger, plus a custom level below
// Debug for per-item trace output), and formats lines the way
// pablor21-goscanner's logger package does (timestamp, bracketed tag, level,
// message) rather than slog's default key=value layout.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Level is the logging verbosity, ordered the same way slog.Level is.
type Level string

const (
	LevelTrace Level = "trace"
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelNone  Level = "none"
)

// levelTrace sits below slog.LevelDebug, mirroring gomib's LevelTrace.
const levelTrace = slog.Level(-8)

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelTrace:
		return levelTrace
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelNone:
		return slog.Level(1000)
	default:
		return slog.LevelInfo
	}
}

// Logger is the interface the core depends on. The core never calls
// log/slog or fmt.Print* directly: every diagnostic funnels
// through an injected Logger, defaulting to a no-op implementation so a
// caller that doesn't supply one gets silence rather than stderr spam.
type Logger interface {
	Tracef(format string, args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	// WithTag returns a Logger that prefixes its output with tag, without
	// mutating the receiver. Used to scope a logger to a component, e.g.
	// ctx.Logger().WithTag("parser").
	WithTag(tag string) Logger
}

// lineHandler formats records as "timestamp [tag] LEVEL message", the
// format pablor21-goscanner's simpleHandler uses, but with the tag carried
// on the handler instance instead of a package-level global so multiple
// tagged loggers can coexist safely.
type lineHandler struct {
	level slog.Level
	w     io.Writer
	mu    *sync.Mutex
	tag   string
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	tag := h.tag
	if tag == "" {
		tag = "core"
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.w, "%s [%s] %s %s\n",
		r.Time.Format("2006/01/02 15:04:05"), tag, levelName(r.Level), r.Message)
	return err
}

func levelName(l slog.Level) string {
	if l == levelTrace {
		return "TRACE"
	}
	return l.String()
}

func (h *lineHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *lineHandler) WithGroup(_ string) slog.Handler      { return h }

// slogLogger is the default Logger implementation.
type slogLogger struct {
	l *slog.Logger
}

// New builds the default Logger, writing to os.Stderr at the given level.
func New(level Level) Logger {
	return newTagged(level, "", os.Stderr)
}

func newTagged(level Level, tag string, w io.Writer) Logger {
	h := &lineHandler{level: level.slogLevel(), w: w, mu: &sync.Mutex{}, tag: tag}
	return &slogLogger{l: slog.New(h)}
}

func (s *slogLogger) Tracef(format string, args ...any) { s.log(levelTrace, format, args...) }
func (s *slogLogger) Debugf(format string, args ...any) { s.log(slog.LevelDebug, format, args...) }
func (s *slogLogger) Infof(format string, args ...any)  { s.log(slog.LevelInfo, format, args...) }
func (s *slogLogger) Warnf(format string, args ...any)  { s.log(slog.LevelWarn, format, args...) }
func (s *slogLogger) Errorf(format string, args ...any) { s.log(slog.LevelError, format, args...) }

func (s *slogLogger) log(level slog.Level, format string, args ...any) {
	if !s.l.Enabled(context.Background(), level) {
		return
	}
	s.l.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

func (s *slogLogger) WithTag(tag string) Logger {
	h, ok := s.l.Handler().(*lineHandler)
	if !ok {
		return s
	}
	return &slogLogger{l: slog.New(&lineHandler{level: h.level, w: h.w, mu: h.mu, tag: tag})}
}

// noop discards everything. It is the Context's default logger so the core
// stays silent unless a caller opts in.
type noop struct{}

// Noop returns a Logger that discards all output.
func Noop() Logger { return noop{} }

func (noop) Tracef(string, ...any)   {}
func (noop) Debugf(string, ...any)   {}
func (noop) Infof(string, ...any)    {}
func (noop) Warnf(string, ...any)    {}
func (noop) Errorf(string, ...any)   {}
func (n noop) WithTag(string) Logger { return n }
