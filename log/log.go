// Package log is the logging sink the dispatcher writes diagnostic lines
// to. dispatch never logs directly to stdio; it calls the package-level
// Sink configured once via SetSink.
package log

import (
	"fmt"
	"io"
	"log/slog"
)

// Sink accepts a single formatted diagnostic line.
type Sink interface {
	Logf(format string, args ...any)
}

// Format selects how a slog-backed Sink renders lines.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// discard is the zero-value default Sink; a process that never calls
// SetSink logs nothing rather than panicking.
type discard struct{}

func (discard) Logf(string, ...any) {}

// Discard is a Sink that drops every line.
var Discard Sink = discard{}

var current Sink = Discard

// SetSink installs s as the package-level sink used by dispatch.
// Not safe to call concurrently with an in-flight parse.
func SetSink(s Sink) {
	if s == nil {
		s = Discard
	}
	current = s
}

// Logf forwards to the currently installed sink.
func Logf(format string, args ...any) {
	current.Logf(format, args...)
}

// NewHandler builds a slog.Handler at the given level and format, mirroring
// the shape of MacroPower/x's log.CreateHandler.
func NewHandler(w io.Writer, level slog.Level, format Format) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// slogSink adapts a *slog.Logger to Sink.
type slogSink struct {
	l *slog.Logger
}

// NewSlogSink wraps logger as a Sink. Lines are emitted at slog.LevelDebug;
// callers that want diagnostics surfaced by default should pass a logger
// configured with a Debug-enabled handler.
func NewSlogSink(logger *slog.Logger) Sink {
	return &slogSink{l: logger}
}

func (s *slogSink) Logf(format string, args ...any) {
	if len(args) == 0 {
		s.l.Debug(format)
		return
	}
	s.l.Debug(fmt.Sprintf(format, args...))
}
