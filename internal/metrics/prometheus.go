package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// Namespace for all sortbench metrics
	namespace = "sortbench"

	// Subsystems
	subsystemSort   = "sort"
	subsystemReport = "report"
	subsystemSystem = "system"
	subsystemHTTP   = "http"
)

// Operation label values for the per-run gauge.
const (
	OperationComparisons   = "comparisons"
	OperationSwaps         = "swaps"
	OperationArrayAccesses = "array_accesses"
	OperationIterations    = "iterations"
)

// RunSample is one instrumented sort run as seen by the collectors.
type RunSample struct {
	Variant       string
	Distribution  string
	Size          int
	Comparisons   int64
	Swaps         int64
	ArrayAccesses int64
	Iterations    int64
	Duration      time.Duration
}

// PrometheusMetrics holds all Prometheus metric collectors
type PrometheusMetrics struct {
	// Sort metrics
	runsTotal      *prometheus.CounterVec
	operations     *prometheus.CounterVec
	lastOperations *prometheus.GaugeVec
	runDuration    *prometheus.HistogramVec
	verifyFailures *prometheus.CounterVec

	// Report metrics
	reportErrors *prometheus.CounterVec
	rowsWritten  prometheus.Counter

	// HTTP metrics
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	// System metrics
	uptime       prometheus.Gauge
	lastBenchRun prometheus.Gauge

	startTime time.Time
	mu        sync.RWMutex
	registry  *prometheus.Registry
}

// NewPrometheusMetrics creates a new Prometheus metrics instance with all collectors
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	pm := &PrometheusMetrics{
		startTime: time.Now(),
		registry:  registry,
	}

	pm.initSortMetrics()
	pm.initReportMetrics()
	pm.initHTTPMetrics()
	pm.initSystemMetrics()

	pm.registerMetrics()

	// Register standard Go and process collectors for runtime visibility
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return pm
}

// initSortMetrics initializes sort-run metrics
func (pm *PrometheusMetrics) initSortMetrics() {
	pm.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemSort,
			Name:      "runs_total",
			Help:      "Total number of sort runs by variant and input distribution",
		},
		[]string{"variant", "distribution"},
	)

	pm.operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemSort,
			Name:      "operations_total",
			Help:      "Counted sort operations accumulated over all runs",
		},
		[]string{"variant", "distribution", "operation"},
	)

	pm.lastOperations = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSort,
			Name:      "last_run_operations",
			Help:      "Counted sort operations of the most recent run per variant, distribution and size",
		},
		[]string{"variant", "distribution", "size", "operation"},
	)

	pm.runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemSort,
			Name:      "duration_seconds",
			Help:      "Duration of sort runs in seconds",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"variant"},
	)

	pm.verifyFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemSort,
			Name:      "verification_failures_total",
			Help:      "Total number of runs whose output was not sorted",
		},
		[]string{"variant"},
	)
}

// initReportMetrics initializes report-related metrics
func (pm *PrometheusMetrics) initReportMetrics() {
	pm.reportErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemReport,
			Name:      "errors_total",
			Help:      "Total number of report sink errors by sink and error code",
		},
		[]string{"sink", "code"},
	)

	pm.rowsWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemReport,
			Name:      "rows_total",
			Help:      "Total number of result rows emitted",
		},
	)
}

// initHTTPMetrics initializes results server metrics
func (pm *PrometheusMetrics) initHTTPMetrics() {
	pm.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemHTTP,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	pm.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemHTTP,
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
}

// initSystemMetrics initializes system-related metrics
func (pm *PrometheusMetrics) initSystemMetrics() {
	pm.uptime = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSystem,
			Name:      "uptime_seconds",
			Help:      "Application uptime in seconds",
		},
	)

	pm.lastBenchRun = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSystem,
			Name:      "last_benchmark_timestamp_seconds",
			Help:      "Unix time of the most recently completed benchmark",
		},
	)
}

// registerMetrics registers all metrics with the Prometheus registry
func (pm *PrometheusMetrics) registerMetrics() {
	pm.registry.MustRegister(pm.runsTotal)
	pm.registry.MustRegister(pm.operations)
	pm.registry.MustRegister(pm.lastOperations)
	pm.registry.MustRegister(pm.runDuration)
	pm.registry.MustRegister(pm.verifyFailures)

	pm.registry.MustRegister(pm.reportErrors)
	pm.registry.MustRegister(pm.rowsWritten)

	pm.registry.MustRegister(pm.httpRequests)
	pm.registry.MustRegister(pm.httpDuration)

	pm.registry.MustRegister(pm.uptime)
	pm.registry.MustRegister(pm.lastBenchRun)
}

// GetRegistry returns the Prometheus registry for HTTP handler
func (pm *PrometheusMetrics) GetRegistry() *prometheus.Registry {
	return pm.registry
}

// ObserveRun records the counters and duration of one sort run.
func (pm *PrometheusMetrics) ObserveRun(s RunSample) {
	pm.runsTotal.WithLabelValues(s.Variant, s.Distribution).Inc()
	pm.runDuration.WithLabelValues(s.Variant).Observe(s.Duration.Seconds())

	size := strconv.Itoa(s.Size)
	for _, op := range []struct {
		name  string
		value int64
	}{
		{OperationComparisons, s.Comparisons},
		{OperationSwaps, s.Swaps},
		{OperationArrayAccesses, s.ArrayAccesses},
		{OperationIterations, s.Iterations},
	} {
		pm.operations.WithLabelValues(s.Variant, s.Distribution, op.name).Add(float64(op.value))
		pm.lastOperations.WithLabelValues(s.Variant, s.Distribution, size, op.name).Set(float64(op.value))
	}
}

// IncrementVerificationFailures counts a run that produced unsorted output.
func (pm *PrometheusMetrics) IncrementVerificationFailures(variant string) {
	pm.verifyFailures.WithLabelValues(variant).Inc()
}

// IncrementReportErrors counts a failed sink operation.
func (pm *PrometheusMetrics) IncrementReportErrors(sink, code string) {
	pm.reportErrors.WithLabelValues(sink, code).Inc()
}

// IncrementRowsWritten counts emitted result rows.
func (pm *PrometheusMetrics) IncrementRowsWritten() {
	pm.rowsWritten.Inc()
}

// ObserveHTTPRequest records one served request.
func (pm *PrometheusMetrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	pm.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	pm.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// MarkBenchmarkCompleted stamps the completion time of a benchmark.
func (pm *PrometheusMetrics) MarkBenchmarkCompleted(at time.Time) {
	pm.lastBenchRun.Set(float64(at.Unix()))
}

// UpdateSystemMetrics refreshes the uptime gauge
func (pm *PrometheusMetrics) UpdateSystemMetrics() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.uptime.Set(time.Since(pm.startTime).Seconds())
}

// GetUptime returns the application uptime
func (pm *PrometheusMetrics) GetUptime() time.Duration {
	return time.Since(pm.startTime)
}

// WriteTextfile writes the current state of every collector to path in the
// Prometheus text exposition format, suitable for the node_exporter
// textfile collector.
func (pm *PrometheusMetrics) WriteTextfile(path string) error {
	pm.UpdateSystemMetrics()
	return prometheus.WriteToTextfile(path, pm.registry)
}

// Global instance for easy access
var globalMetrics *PrometheusMetrics
var metricsOnce sync.Once

// GetGlobalMetrics returns the global Prometheus metrics instance
func GetGlobalMetrics() *PrometheusMetrics {
	metricsOnce.Do(func() {
		globalMetrics = NewPrometheusMetrics()
	})
	return globalMetrics
}
