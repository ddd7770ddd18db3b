// Package metrics provides interfaces for metrics collection and monitoring.
package metrics

import (
	"time"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/anstrom/sortbench/internal/metrics Store

// Store defines the named-value store contract consumed by the sort engine.
// This interface allows for easy mocking and testing of metrics functionality.
type Store interface {
	// StartTimer captures the current time.
	StartTimer()

	// StopTimer records the time elapsed since StartTimer under name.
	StopTimer(name string)

	// RecordDuration records d under "<name>_time_ns" and "<name>_time_ms".
	RecordDuration(name string, d time.Duration)

	// SetMetric overwrites the value stored under key.
	SetMetric(key string, value int64)

	// GetMetric returns the value stored under key, or 0 if absent.
	GetMetric(key string) int64

	// IncrementCounter adds one to key.
	IncrementCounter(key string)

	// Reset clears all entries.
	Reset()

	// Snapshot returns a copy of all entries.
	Snapshot() map[string]int64
}

// Ensure that Tracker implements Store interface.
var _ Store = (*Tracker)(nil)
