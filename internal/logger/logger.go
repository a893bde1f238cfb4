// Package logger provides the leveled, structured logger used across
// teams-recordings. It wraps log/slog behind a small interface so the Graph
// client and the scanner can be handed a NoopLogger in tests.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger defines the interface for structured logging with multiple levels.
// Attributes are passed as alternating key/value pairs, as with slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a Logger that adds args to every record.
	With(args ...any) Logger
}

// NoopLogger is a logger that discards all log messages.
type NoopLogger struct{}

func (l NoopLogger) Debug(msg string, args ...any) {}
func (l NoopLogger) Info(msg string, args ...any)  {}
func (l NoopLogger) Warn(msg string, args ...any)  {}
func (l NoopLogger) Error(msg string, args ...any) {}
func (l NoopLogger) With(args ...any) Logger       { return l }

// SlogLogger wraps a *slog.Logger to implement Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates a SlogLogger writing text records at level to w.
func NewSlogLogger(w io.Writer, level slog.Level) *SlogLogger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &SlogLogger{logger: slog.New(handler)}
}

// NewDefaultLogger logs to stderr at Debug level when debug is set and at
// Warn level otherwise, so that report output on stdout stays readable.
func NewDefaultLogger(debug bool) Logger {
	if debug {
		return NewSlogLogger(os.Stderr, slog.LevelDebug)
	}
	return NewSlogLogger(os.Stderr, slog.LevelWarn)
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// With returns a child logger carrying args on every record.
func (l *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{logger: l.logger.With(args...)}
}

