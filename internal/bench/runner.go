// Package bench drives the insertion sort benchmark: it generates inputs,
// runs every planned case through the sort engine and hands each measurement
// to the report sinks.
package bench

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anstrom/sortbench/internal/errors"
	"github.com/anstrom/sortbench/internal/logging"
	"github.com/anstrom/sortbench/internal/metrics"
	"github.com/anstrom/sortbench/internal/report"
	"github.com/anstrom/sortbench/internal/sorting"
)

// DefaultSizes are the input sizes benchmarked when none are configured.
var DefaultSizes = []int{100, 500, 1000, 5000, 10000}

const (
	// DefaultSeed seeds every generated Random and NearlySorted array.
	DefaultSeed int64 = 42
	// DefaultOutputFile is where CSV results are written.
	DefaultOutputFile = "benchmark_results.csv"
)

// Config controls what a benchmark run covers.
type Config struct {
	Sizes          []int
	Seed           int64
	Matrix         bool
	Variants       []sorting.Variant
	Distributions  []Distribution
	GuardThreshold int
	// OutputFile is the CSV destination. Empty disables the file.
	OutputFile string
}

// DefaultConfig returns the classic benchmark settings.
func DefaultConfig() Config {
	return Config{
		Sizes:          append([]int(nil), DefaultSizes...),
		Seed:           DefaultSeed,
		GuardThreshold: sorting.DefaultGuardThreshold,
		OutputFile:     DefaultOutputFile,
	}
}

// Report summarizes one completed run.
type Report struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Rows       []report.Row `json:"rows"`
	// Failures counts runs whose output was not sorted.
	Failures   int    `json:"verification_failures"`
	OutputFile string `json:"output_file,omitempty"`
	// Saved is false when the CSV file could not be created or written.
	Saved bool `json:"saved"`
}

// Runner executes benchmark runs. Concurrent calls to Run are serialized.
type Runner struct {
	cfg     Config
	engine  *sorting.Engine
	console io.Writer
	format  report.Format
	stderr  io.Writer
	metrics *metrics.PrometheusMetrics
	logger  *logging.Logger

	runMu sync.Mutex
	mu    sync.RWMutex
	last  *Report
}

// Option configures a Runner.
type Option func(*Runner)

// WithConsole echoes rows to w in the given format. A nil writer disables the
// console echo.
func WithConsole(w io.Writer, format report.Format) Option {
	return func(r *Runner) {
		r.console = w
		r.format = format
	}
}

// WithStderr sets where persistence failures are reported.
func WithStderr(w io.Writer) Option {
	return func(r *Runner) {
		r.stderr = w
	}
}

// WithMetrics sets the Prometheus collectors runs are observed into.
func WithMetrics(pm *metrics.PrometheusMetrics) Option {
	return func(r *Runner) {
		r.metrics = pm
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithEngine replaces the sort engine.
func WithEngine(engine *sorting.Engine) Option {
	return func(r *Runner) {
		r.engine = engine
	}
}

// NewRunner creates a runner. By default rows are echoed as text to stdout,
// errors go to stderr and the engine mirrors into the default metrics tracker.
func NewRunner(cfg Config, opts ...Option) *Runner {
	if len(cfg.Sizes) == 0 {
		cfg.Sizes = append([]int(nil), DefaultSizes...)
	}
	if cfg.GuardThreshold <= 0 {
		cfg.GuardThreshold = sorting.DefaultGuardThreshold
	}

	r := &Runner{
		cfg:     cfg,
		console: os.Stdout,
		format:  report.FormatText,
		stderr:  os.Stderr,
		logger:  logging.Default().WithComponent("bench"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.engine == nil {
		r.engine = sorting.NewEngine(sorting.WithGuardThreshold(cfg.GuardThreshold))
	}
	return r
}

// Config returns the runner configuration.
func (r *Runner) Config() Config {
	return r.cfg
}

// Last returns the most recent report, or nil before the first run.
func (r *Runner) Last() *Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Run executes the plan once for every size. Engine and console failures
// abort the run; CSV file failures are reported and the run continues
// without persistence.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	rep := &Report{
		RunID:      uuid.New().String(),
		StartedAt:  time.Now(),
		OutputFile: r.cfg.OutputFile,
	}
	logger := r.logger.WithRunID(rep.RunID)
	plan := BuildPlan(r.cfg)
	logger.Info("Benchmark started",
		"sizes", r.cfg.Sizes,
		"cases", len(plan),
		"seed", r.cfg.Seed,
		"matrix", r.cfg.Matrix)

	console, err := r.openConsole()
	if err != nil {
		return nil, err
	}
	file := r.openFile(logger)

	for _, size := range r.cfg.Sizes {
		if err := console.StartSize(size); err != nil {
			return nil, fmt.Errorf("failed to write console output: %w", err)
		}

		for _, c := range plan {
			if err := ctx.Err(); err != nil {
				r.closeFile(file, logger)
				return nil, err
			}

			row, err := r.runCase(c, size, rep, logger)
			if err != nil {
				r.closeFile(file, logger)
				return nil, err
			}
			rep.Rows = append(rep.Rows, row)

			if err := console.WriteRow(row); err != nil {
				r.closeFile(file, logger)
				return nil, fmt.Errorf("failed to write console output: %w", err)
			}
			if file != nil {
				if err := file.WriteRow(row); err != nil {
					r.persistFailed(err, logger)
					_ = file.Close()
					file = nil
				} else if r.metrics != nil {
					r.metrics.IncrementRowsWritten()
				}
			}
		}
	}

	rep.Saved = r.closeFile(file, logger)
	if err := console.Close(); err != nil {
		return nil, fmt.Errorf("failed to write console output: %w", err)
	}

	rep.FinishedAt = time.Now()
	if r.metrics != nil {
		r.metrics.MarkBenchmarkCompleted(rep.FinishedAt)
	}
	logger.Info("Benchmark completed",
		"rows", len(rep.Rows),
		"verification_failures", rep.Failures,
		"saved", rep.Saved,
		"duration", rep.FinishedAt.Sub(rep.StartedAt))

	r.mu.Lock()
	r.last = rep
	r.mu.Unlock()
	return rep, nil
}

func (r *Runner) runCase(c Case, size int, rep *Report, logger *logging.Logger) (report.Row, error) {
	data := Generate(c.Distribution, size, r.cfg.Seed)

	result, err := sorting.Run(r.engine, c.Variant, data)
	if err != nil {
		logger.ErrorRun("Sort failed", string(c.Variant), err, "type", c.Type, "size", size)
		return report.Row{}, err
	}

	if !sorting.IsSorted(data) {
		rep.Failures++
		logger.Error("Output is not sorted", "variant", c.Variant, "type", c.Type, "size", size)
		if r.metrics != nil {
			r.metrics.IncrementVerificationFailures(string(c.Variant))
		}
	}

	if r.metrics != nil {
		r.metrics.ObserveRun(metrics.RunSample{
			Variant:       string(c.Variant),
			Distribution:  string(c.Distribution),
			Size:          size,
			Comparisons:   result.Counters.Comparisons,
			Swaps:         result.Counters.Swaps,
			ArrayAccesses: result.Counters.ArrayAccesses,
			Iterations:    result.Counters.Iterations,
			Duration:      result.Elapsed,
		})
	}

	logger.Debug("Case completed",
		"type", c.Type,
		"size", size,
		"elapsed", result.Elapsed)

	return report.Row{
		Type:          c.Type,
		Size:          result.Size,
		TimeNS:        result.Elapsed.Nanoseconds(),
		Comparisons:   result.Counters.Comparisons,
		Swaps:         result.Counters.Swaps,
		ArrayAccesses: result.Counters.ArrayAccesses,
		Iterations:    result.Counters.Iterations,
	}, nil
}

func (r *Runner) openConsole() (report.Sink, error) {
	if r.console == nil {
		return discardSink{}, nil
	}
	return report.NewConsole(r.console, r.format)
}

// openFile returns nil when no file is configured or it cannot be created.
func (r *Runner) openFile(logger *logging.Logger) *report.CSVFile {
	if r.cfg.OutputFile == "" {
		return nil
	}
	file, err := report.CreateCSVFile(r.cfg.OutputFile)
	if err != nil {
		r.persistFailed(err, logger)
		return nil
	}
	return file
}

// closeFile closes file and reports whether everything was persisted.
func (r *Runner) closeFile(file *report.CSVFile, logger *logging.Logger) bool {
	if file == nil {
		return false
	}
	if err := file.Close(); err != nil {
		r.persistFailed(err, logger)
		return false
	}
	logger.InfoReport("Results saved", "path", file.Path())
	return true
}

func (r *Runner) persistFailed(err error, logger *logging.Logger) {
	logger.ErrorReport("Error writing CSV file", err, "path", r.cfg.OutputFile)
	if r.stderr != nil {
		fmt.Fprintf(r.stderr, "Error writing CSV file: %v\n", err)
	}
	if r.metrics != nil {
		r.metrics.IncrementReportErrors("csv", string(errors.GetCode(err)))
	}
}

type discardSink struct{}

func (discardSink) StartSize(int) error       { return nil }
func (discardSink) WriteRow(report.Row) error { return nil }
func (discardSink) Close() error              { return nil }
