package log

import (
	"context"
	"log/slog"
)

// slogLogger adapts a slog.Handler to the Logger interface.
type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps h. Pass a handler from WrapByErrFmtHandler to get
// stack traces of cockroachdb errors in the output.
func NewSlogLogger(h slog.Handler) Logger {
	return &slogLogger{l: slog.New(h)}
}

func (s *slogLogger) Debug(msg string, fields ...any) { s.l.Debug(msg, fields...) }

func (s *slogLogger) Info(msg string, fields ...any) { s.l.Info(msg, fields...) }

func (s *slogLogger) Warn(msg string, fields ...any) { s.l.Warn(msg, fields...) }

func (s *slogLogger) Error(msg string, fields ...any) {
	err, rest := splitError(fields)
	if err != nil {
		rest = append([]any{ErrAttr(err)}, rest...)
	}
	s.l.Error(msg, rest...)
}

func (s *slogLogger) With(fields ...any) Logger {
	return &slogLogger{l: s.l.With(fields...)}
}

func (s *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.l.Enabled(ctx, slog.Level(level))
}
