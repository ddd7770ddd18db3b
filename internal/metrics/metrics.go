// Package metrics provides the named-value store that sort runs are mirrored
// into, plus Prometheus collectors for benchmark observability.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// Key suffixes written by the timer pair.
const (
	SuffixTimeNS = "_time_ns"
	SuffixTimeMS = "_time_ms"
)

// Tracker is a string to int64 store with a single start/stop timer.
// Entries are overwritten, never merged, and live until Reset.
type Tracker struct {
	mu     sync.RWMutex
	values map[string]int64
	start  time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		values: make(map[string]int64),
	}
}

// StartTimer captures the current time as the timer start.
func (t *Tracker) StartTimer() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.start = time.Now()
}

// StopTimer records the time elapsed since the last StartTimer under
// "<name>_time_ns" and "<name>_time_ms".
func (t *Tracker) StopTimer(name string) {
	t.mu.RLock()
	start := t.start
	t.mu.RUnlock()
	t.RecordDuration(name, time.Since(start))
}

// RecordDuration stores d under "<name>_time_ns" and the truncated
// millisecond value under "<name>_time_ms".
func (t *Tracker) RecordDuration(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values[name+SuffixTimeNS] = d.Nanoseconds()
	t.values[name+SuffixTimeMS] = d.Milliseconds()
}

// SetMetric overwrites the value stored under key.
func (t *Tracker) SetMetric(key string, value int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values[key] = value
}

// GetMetric returns the value stored under key, or 0 if absent.
func (t *Tracker) GetMetric(key string) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.values[key]
}

// IncrementCounter adds one to key, treating an absent key as 0.
func (t *Tracker) IncrementCounter(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values[key]++
}

// Reset clears all entries.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values = make(map[string]int64)
}

// Snapshot returns a copy of all entries.
func (t *Tracker) Snapshot() map[string]int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]int64, len(t.values))
	for k, v := range t.values {
		result[k] = v
	}
	return result
}

// WriteTo prints every entry as an aligned "key: value" line, sorted by key.
func (t *Tracker) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	b.WriteString("=== Performance Metrics ===\n")
	snapshot := t.Snapshot()
	for _, key := range sortedKeys(snapshot) {
		fmt.Fprintf(&b, "%-25s: %d\n", key, snapshot[key])
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// CSV renders every entry as a "key,value" line, sorted by key.
func (t *Tracker) CSV() string {
	var b strings.Builder
	snapshot := t.Snapshot()
	for _, key := range sortedKeys(snapshot) {
		fmt.Fprintf(&b, "%s,%d\n", key, snapshot[key])
	}
	return b.String()
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Global tracker instance.
var defaultTracker = NewTracker()

// SetDefault sets the default tracker.
func SetDefault(tracker *Tracker) {
	defaultTracker = tracker
}

// Default returns the default tracker.
func Default() *Tracker {
	return defaultTracker
}

// StartTimer starts the timer on the default tracker.
func StartTimer() {
	defaultTracker.StartTimer()
}

// StopTimer stops the timer on the default tracker.
func StopTimer(name string) {
	defaultTracker.StopTimer(name)
}

// SetMetric sets a value on the default tracker.
func SetMetric(key string, value int64) {
	defaultTracker.SetMetric(key, value)
}

// GetMetric reads a value from the default tracker.
func GetMetric(key string) int64 {
	return defaultTracker.GetMetric(key)
}

// IncrementCounter increments a value on the default tracker.
func IncrementCounter(key string) {
	defaultTracker.IncrementCounter(key)
}

// Reset clears the default tracker.
func Reset() {
	defaultTracker.Reset()
}

// Snapshot copies all entries of the default tracker.
func Snapshot() map[string]int64 {
	return defaultTracker.Snapshot()
}
