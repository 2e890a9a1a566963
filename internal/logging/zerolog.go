// Package logging provides rides.Logger implementations.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/fivetwenty-io/rides/pkg/rides"
	"github.com/rs/zerolog"
)

// zerologAdapter wraps a zerolog.Logger to implement rides.Logger.
type zerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologLogger creates a rides.Logger writing to stderr.
func NewZerologLogger(level zerolog.Level, pretty bool) rides.Logger {
	return NewZerologLoggerTo(os.Stderr, level, pretty)
}

// NewZerologLoggerTo creates a rides.Logger writing to out.
func NewZerologLoggerTo(out io.Writer, level zerolog.Level, pretty bool) rides.Logger {
	if pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zlog := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &zerologAdapter{logger: zlog}
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}

	return level
}

func (z *zerologAdapter) Debug(msg string, fields map[string]interface{}) {
	z.logger.Debug().Fields(fields).Msg(msg)
}

func (z *zerologAdapter) Info(msg string, fields map[string]interface{}) {
	z.logger.Info().Fields(fields).Msg(msg)
}

func (z *zerologAdapter) Warn(msg string, fields map[string]interface{}) {
	z.logger.Warn().Fields(fields).Msg(msg)
}

func (z *zerologAdapter) Error(msg string, fields map[string]interface{}) {
	z.logger.Error().Fields(fields).Msg(msg)
}

// With returns a logger with fields added to every entry.
func With(logger rides.Logger, fields map[string]interface{}) rides.Logger {
	if z, ok := logger.(*zerologAdapter); ok {
		return &zerologAdapter{logger: z.logger.With().Fields(fields).Logger()}
	}

	return logger
}

type nopLogger struct{}

// Nop returns a logger that discards everything.
func Nop() rides.Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
