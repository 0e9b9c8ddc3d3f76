package pag

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/pag/engine"
)

// nopHandler is a slog.Handler that discards all records. Enabled returns
// false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for pag and its engines.
// By default, pag produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore the default
// silent behavior.
//
// Log levels used by pag:
//   - [slog.LevelDebug]: handle traffic (documents parsed, files made, surfaces allocated)
//   - [slog.LevelInfo]: lifecycle events (engine selected, native module loaded)
//   - [slog.LevelWarn]: engine fallback, resources released by cleanup instead of Release
//   - [slog.LevelError]: bootstrap failures (module missing, symbols unresolved)
//
// Example:
//
//	pag.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	engine.SetLogger(l)
}

// Logger returns the current logger used by pag.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
