// Package logging holds the logger shared by every glmandel package.
//
// By default nothing is logged. Hosts call SetLogger once flags are parsed.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger replaces the shared logger. Passing nil silences logging again.
//
// Levels used:
//   - [slog.LevelDebug]: gesture transitions, buffer growth, uniform uploads
//   - [slog.LevelInfo]: backend setup and teardown
//   - [slog.LevelWarn]: clamped invariants, skipped frames
//   - [slog.LevelError]: backend setup failures
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the shared logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// For returns the shared logger tagged with a component name.
func For(component string) *slog.Logger {
	return Logger().With("component", component)
}
