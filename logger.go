package nativepass

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/nativepass/plugin"
	"github.com/gogpu/nativepass/render"
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

// SetLogger configures the logger for nativepass and its render and plugin
// packages. By default nothing is logged.
//
// Log levels used:
//   - [slog.LevelDebug]: per-frame detail (handles issued, frames finished)
//   - [slog.LevelInfo]: lifecycle events (library linked, pipeline built)
//   - [slog.LevelWarn]: non-fatal issues (command buffer release errors)
//
// Pass nil to restore silent logging. Plugin implementations such as
// plugin/sample have their own SetLogger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	render.SetLogger(l)
	plugin.SetLogger(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
