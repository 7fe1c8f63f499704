package logging

import (
	"context"
	"log/slog"
)

// Categories group log output by the part of the engine that produced it
const (
	CategoryEngine   = "engine"
	CategoryGraphics = "graphics"
	CategorySystem   = "system"
	CategoryEditor   = "editor"
)

// Category returns the attribute used to tag a record with its category
func Category(name string) slog.Attr {
	return slog.String("category", name)
}

// NopHandler is a slog.Handler that silently discards all log records. Enabled returns false, so
// callers skip formatting entirely.
type NopHandler struct{}

func (NopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (NopHandler) Handle(context.Context, slog.Record) error { return nil }
func (NopHandler) WithAttrs([]slog.Attr) slog.Handler        { return NopHandler{} }
func (NopHandler) WithGroup(string) slog.Handler             { return NopHandler{} }

// OrNop returns logger, or a logger that discards everything if logger is nil
func OrNop(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(NopHandler{})
	}

	return logger
}
