package gcanvas

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gcanvas/gcode"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for gcanvas and its sub-packages.
// By default, gcanvas produces no log output. Call SetLogger to enable logging.
//
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by gcanvas:
//   - [slog.LevelDebug]: geometry fallbacks, collapsed offsets, dropped parameters
//   - [slog.LevelInfo]: job lifecycle (files compiled, lines written)
//   - [slog.LevelWarn]: recoverable input problems (unsupported SVG content)
//
// Example:
//
//	gcanvas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gcode.SetLogger(l)
}

// Logger returns the current logger used by gcanvas.
// The svg and preview packages call this to share the same logger
// configuration; gcode keeps its own copy, updated by SetLogger.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
