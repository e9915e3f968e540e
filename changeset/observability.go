package changeset

import (
	"time"
)

// Metric names recorded by the ChangeDetector when a MetricsCollector is
// configured.
const (
	metricPrepareDuration = "changeset.prepare.duration"
	metricPrepareTotal    = "changeset.prepare.total"
	metricDiffDuration    = "changeset.diff.duration"
	metricDiffTotal       = "changeset.diff.total"
	metricChangedFields   = "changeset.diff.changed_fields"
)

// Logger interface for operational logging of normalization and diffing.
// The core stays dependency-free: plug in any backend by implementing this
// interface, or use the adapters in the oteladapters subpackage.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector interface for collecting change-detection performance
// and operational metrics. Implementations map these calls onto their
// metrics backend; the oteladapters subpackage provides an OpenTelemetry
// implementation.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// logDebug forwards to the configured logger, if any.
func (cd *ChangeDetector) logDebug(msg string, args ...any) {
	if cd.logger == nil {
		return
	}

	cd.logger.Debug(msg, args...)
}

// logError forwards to the configured logger, if any.
func (cd *ChangeDetector) logError(msg string, args ...any) {
	if cd.logger == nil {
		return
	}

	cd.logger.Error(msg, args...)
}

// observeDuration records an operation duration and count, if metrics are
// configured.
func (cd *ChangeDetector) observeDuration(durationMetric, totalMetric string, start time.Time, labels map[string]string) {
	if cd.metrics == nil {
		return
	}

	cd.metrics.RecordDuration(durationMetric, time.Since(start), labels)
	cd.metrics.IncrementCounter(totalMetric, labels)
}

// observeValue records a gauge-style value, if metrics are configured.
func (cd *ChangeDetector) observeValue(metric string, value float64, labels map[string]string) {
	if cd.metrics == nil {
		return
	}

	cd.metrics.RecordValue(metric, value, labels)
}
