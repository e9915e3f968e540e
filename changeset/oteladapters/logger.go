// Package oteladapters provides OpenTelemetry adapters for the changeset
// observability interfaces. These adapters enable plug-and-play integration
// with OpenTelemetry for users who do not want to implement the interfaces
// themselves.
package oteladapters

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"

	"github.com/ormkit/changeset-go/changeset"
)

// SlogLogger implements changeset.Logger on top of a slog.Logger created
// through the OpenTelemetry slog bridge. This is the recommended adapter:
// it works with Go's standard log/slog package and routes records through
// the global OpenTelemetry LoggerProvider.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates a logger backed by the OpenTelemetry slog bridge,
// using the global OpenTelemetry LoggerProvider.
func NewSlogLogger(name string) *SlogLogger {
	return &SlogLogger{logger: otelslog.NewLogger(name)}
}

// NewSlogLoggerWithHandler creates a logger using the provided slog.Handler
// as-is, without OpenTelemetry integration. Use this when log output should
// go to a specific handler, for example in tests or simple binaries.
func NewSlogLoggerWithHandler(handler slog.Handler) *SlogLogger {
	return &SlogLogger{logger: slog.New(handler)}
}

// Debug logs a debug message.
func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs an info message.
func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn logs a warning message.
func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs an error message.
func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Ensure SlogLogger implements changeset.Logger.
var _ changeset.Logger = (*SlogLogger)(nil)

// OTelLogger implements changeset.Logger using the OpenTelemetry logging
// API directly. This gives full control over log record creation but
// requires manual setup of the log.Logger.
type OTelLogger struct {
	logger log.Logger
}

// NewOTelLogger creates a logger over the OpenTelemetry logging API.
func NewOTelLogger(logger log.Logger) *OTelLogger {
	return &OTelLogger{logger: logger}
}

// Debug logs a debug message using the OpenTelemetry log API.
func (l *OTelLogger) Debug(msg string, args ...any) {
	l.emit(log.SeverityDebug, msg, args...)
}

// Info logs an info message using the OpenTelemetry log API.
func (l *OTelLogger) Info(msg string, args ...any) {
	l.emit(log.SeverityInfo, msg, args...)
}

// Warn logs a warning message using the OpenTelemetry log API.
func (l *OTelLogger) Warn(msg string, args ...any) {
	l.emit(log.SeverityWarn, msg, args...)
}

// Error logs an error message using the OpenTelemetry log API.
func (l *OTelLogger) Error(msg string, args ...any) {
	l.emit(log.SeverityError, msg, args...)
}

// emit creates and emits an OpenTelemetry log record with the given severity.
// Args come in key-value pairs like slog.
func (l *OTelLogger) emit(severity log.Severity, msg string, args ...any) {
	record := log.Record{}
	record.SetSeverity(severity)
	record.SetBody(log.StringValue(msg))

	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		record.AddAttributes(log.String(key, stringValue(args[i+1])))
	}

	l.logger.Emit(context.Background(), record)
}

// stringValue converts any value to string for OpenTelemetry attributes.
func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return slog.AnyValue(v).String()
}

// Ensure OTelLogger implements changeset.Logger.
var _ changeset.Logger = (*OTelLogger)(nil)
