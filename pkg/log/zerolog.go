package log

import (
	"context"
	"fmt"
	"io"

	"github.com/YuminosukeSato/linregg/pkg/errors"
	"github.com/rs/zerolog"
)

// zerologLogger adapts zerolog.Logger to the Logger interface.
type zerologLogger struct {
	zl    zerolog.Logger
	level Level
}

// NewZerologLogger returns a Logger that writes JSON lines to w, dropping
// records below level.
func NewZerologLogger(w io.Writer, level Level) Logger {
	zl := zerolog.New(w).With().Timestamp().Logger().Level(toZerologLevel(level))
	return &zerologLogger{zl: zl, level: level}
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func (z *zerologLogger) Debug(msg string, fields ...any) {
	z.emit(z.zl.Debug(), msg, fields)
}

func (z *zerologLogger) Info(msg string, fields ...any) {
	z.emit(z.zl.Info(), msg, fields)
}

func (z *zerologLogger) Warn(msg string, fields ...any) {
	z.emit(z.zl.Warn(), msg, fields)
}

func (z *zerologLogger) Error(msg string, fields ...any) {
	err, rest := splitError(fields)
	ev := z.zl.Error()
	if err != nil {
		ev = ev.Err(err)
		// 構造化エラーは自身のフィールドを埋め込む
		var m zerolog.LogObjectMarshaler
		if errors.As(err, &m) {
			ev = ev.EmbedObject(m)
		}
	}
	z.emit(ev, msg, rest)
}

func (z *zerologLogger) With(fields ...any) Logger {
	return &zerologLogger{
		zl:    z.zl.With().Fields(normalizeFields(fields)).Logger(),
		level: z.level,
	}
}

func (z *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return level >= z.level
}

func (z *zerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	if ev == nil {
		return
	}
	ev.Fields(normalizeFields(fields)).Msg(msg)
}

// normalizeFields turns alternating key/value pairs into a zerolog field
// list. A trailing key without value is dropped.
func normalizeFields(fields []any) []any {
	out := make([]any, 0, len(fields))
	for i := 0; i+1 < len(fields); i += 2 {
		out = append(out, fmt.Sprint(fields[i]), fields[i+1])
	}
	return out
}
