package logs

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

type zerologLogger struct {
	zl zerolog.Logger
}

//NewZerologLogger adapts a zerolog.Logger to Logger
func NewZerologLogger(zl zerolog.Logger) Logger {
	return &zerologLogger{zl: zl}
}

//NewConsoleLogger zerolog console output with timestamps, filtered by level
func NewConsoleLogger(w io.Writer, level LogLevel) Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}).
		With().Timestamp().Logger().
		Level(toZerologLevel(level))
	return &zerologLogger{zl: zl}
}

func toZerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case Debug:
		return zerolog.DebugLevel
	case Info:
		return zerolog.InfoLevel
	case Warn:
		return zerolog.WarnLevel
	case Error:
		return zerolog.ErrorLevel
	}
	return zerolog.Disabled
}

func (l *zerologLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.zl.Debug().Msg(fmt.Sprintf(msg, args...))
}

func (l *zerologLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.zl.Info().Msg(fmt.Sprintf(msg, args...))
}

func (l *zerologLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.zl.Warn().Msg(fmt.Sprintf(msg, args...))
}

func (l *zerologLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.zl.Error().Msg(fmt.Sprintf(msg, args...))
}
