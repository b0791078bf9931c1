// AngelaMos | 2026
// sink.go

// Package logging provides the operation log sink used by the aspect
// pipeline and the slog handlers it fans out to.
package logging

import (
	"context"
	"log/slog"
)

// Sink is the append-only destination for operation logs. It is safe for
// concurrent use.
type Sink struct {
	logger *slog.Logger
}

// NewSink wraps logger. A nil logger yields a sink that discards everything.
func NewSink(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sink{logger: logger}
}

func Discard() *Sink {
	return NewSink(nil)
}

func (s *Sink) Logger() *slog.Logger {
	return s.logger
}

func (s *Sink) WriteInfo(ctx context.Context, msg string, args ...any) {
	s.logger.InfoContext(ctx, msg, args...)
}

func (s *Sink) WriteWarn(ctx context.Context, msg string, args ...any) {
	s.logger.WarnContext(ctx, msg, args...)
}

func (s *Sink) WriteError(
	ctx context.Context,
	err error,
	msg string,
	args ...any,
) {
	s.logger.ErrorContext(ctx, msg, append(args, "error", err)...)
}
