// Package logging provides the shared logger for the export pipeline.
// Logging is silent by default; the host wires a logger in with SetLogger.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discardHandler is a slog.Handler that drops every record. Enabled returns
// false so callers skip attribute formatting entirely.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

var active atomic.Pointer[slog.Logger]

func init() {
	active.Store(slog.New(discardHandler{}))
}

// SetLogger configures the logger used by all pipeline packages.
// Pass nil to restore the default silent behavior. Safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discardHandler{})
	}
	active.Store(l)
}

// Logger returns the currently configured logger.
func Logger() *slog.Logger {
	return active.Load()
}
