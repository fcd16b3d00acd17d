// Package logging holds the process-wide structured logger shared by the
// viewer packages. It is silent until SetLogger is called.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs l as the shared logger. Passing nil restores the silent
// default. Safe for concurrent use.
//
// Levels:
//   - [slog.LevelDebug]: transform updates, preload bookkeeping, stale results
//   - [slog.LevelInfo]: tier upgrades, sync mode changes
//   - [slog.LevelWarn]: asset load failures
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the shared logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// For returns the shared logger tagged with a component attribute.
func For(component string) *slog.Logger {
	return Logger().With(slog.String("component", component))
}
