package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Interface interface {
	Debug(message interface{}, args ...interface{})
	Info(message string, args ...interface{})
	Warn(message string, args ...interface{})
	Error(message interface{}, args ...interface{})
	Fatal(message interface{}, args ...interface{})
}

type Logger struct {
	logger *zerolog.Logger
}

var _ Interface = (*Logger)(nil)

func New(level string) *Logger {
	return newLogger(os.Stdout, parseLevel(level))
}

// Nop discards everything. Used by tests.
func Nop() *Logger {
	l := zerolog.Nop()

	return &Logger{logger: &l}
}

func newLogger(w io.Writer, level zerolog.Level) *Logger {
	skipFrameCount := 3
	l := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		CallerWithSkipFrameCount(zerolog.CallerSkipFrameCount + skipFrameCount).
		Logger()

	return &Logger{logger: &l}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "error":
		return zerolog.ErrorLevel
	case "warn":
		return zerolog.WarnLevel
	case "info":
		return zerolog.InfoLevel
	case "debug":
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) Debug(message interface{}, args ...interface{}) {
	l.msg(l.logger.Debug(), message, args...)
}

func (l *Logger) Info(message string, args ...interface{}) {
	l.msg(l.logger.Info(), message, args...)
}

func (l *Logger) Warn(message string, args ...interface{}) {
	l.msg(l.logger.Warn(), message, args...)
}

// Error accepts either a format string or an error. For an error the first
// string argument, if any, is used as the message and the rest as its args.
func (l *Logger) Error(message interface{}, args ...interface{}) {
	l.msg(l.logger.Error(), message, args...)
}

func (l *Logger) Fatal(message interface{}, args ...interface{}) {
	l.msg(l.logger.Error(), message, args...)

	os.Exit(1)
}

func (l *Logger) msg(e *zerolog.Event, message interface{}, args ...interface{}) {
	switch m := message.(type) {
	case error:
		e = e.Err(m)
		if len(args) == 0 {
			e.Send()
			return
		}
		write(e, fmt.Sprint(args[0]), args[1:])
	case string:
		write(e, m, args)
	default:
		e.Msg(fmt.Sprintf("message %v has unknown type %T", message, message))
	}
}

// args is a slice so msg is not taken for a printf wrapper by vet.
func write(e *zerolog.Event, format string, args []interface{}) {
	if len(args) == 0 {
		e.Msg(format)
		return
	}

	e.Msgf(format, args...)
}
