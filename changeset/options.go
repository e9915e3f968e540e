package changeset

import (
	"errors"
)

var (
	// ErrNilRegistry is returned when a ChangeDetector is built without a registry.
	ErrNilRegistry = errors.New("metadata registry must not be nil")

	// ErrInvalidDepthLimit is returned for a composite key depth limit below one.
	ErrInvalidDepthLimit = errors.New("composite key depth limit must be at least 1")
)

// Option defines a functional option for configuring a ChangeDetector.
type Option func(*ChangeDetector) error

// WithLogger sets the logger for the ChangeDetector.
//
// Debug level: per-operation details such as entity type, snapshot field
// counts, and changed-field counts (development use).
// Error level: metadata lookup failures during normalization.
func WithLogger(logger Logger) Option {
	return func(cd *ChangeDetector) error {
		cd.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the ChangeDetector.
// The collector receives normalization and diff durations, operation
// counters, and changed-field counts.
func WithMetrics(collector MetricsCollector) Option {
	return func(cd *ChangeDetector) error {
		cd.metrics = collector
		return nil
	}
}

// WithCompositeKeyDepthLimit overrides how deep identity resolution follows
// nested entity references inside composite keys before giving up. The
// default is 8; entity graphs that are cyclic at the metadata level need
// the bound to terminate.
func WithCompositeKeyDepthLimit(limit int) Option {
	return func(cd *ChangeDetector) error {
		if limit < 1 {
			return ErrInvalidDepthLimit
		}

		cd.keyDepthLimit = limit

		return nil
	}
}
