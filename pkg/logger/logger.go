// Package logger wraps zerolog with the fields every attendly process
// stamps on its lines.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger
type Logger struct {
	zerolog.Logger
}

// New logs to stdout. Development gets the human readable console writer,
// every other environment gets JSON lines tagged with the environment.
func New(serviceName, environment string) *Logger {
	if environment == "development" {
		return NewWithWriter(serviceName, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	l := NewWithWriter(serviceName, os.Stdout)
	return &Logger{Logger: l.Logger.With().Str("env", environment).Logger()}
}

// NewWithWriter writes JSON lines to w
func NewWithWriter(serviceName string, w io.Writer) *Logger {
	return &Logger{
		Logger: zerolog.New(w).With().Timestamp().Str("service", serviceName).Logger(),
	}
}

// Nop discards everything
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// AtLevel filters below the named level ("debug", "info", "warn"...).
// An empty or unknown name returns l unchanged.
func (l *Logger) AtLevel(name string) *Logger {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return l
	}
	return &Logger{Logger: l.Logger.Level(lvl)}
}

// WithComponent tags every line with component
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With().Str("component", component).Logger()}
}
