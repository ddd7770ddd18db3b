// Package sorting implements three instrumented insertion sort variants.
//
// Every call counts comparisons, swaps (element writes during shifting),
// array accesses and outer-loop iterations under fixed accounting rules so
// that the variants can be compared against each other. Counters are built
// fresh for each call and returned to the caller in a Result; an Engine also
// mirrors them into a metrics.Store under variant-prefixed keys.
package sorting

import (
	"cmp"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anstrom/sortbench/internal/errors"
	"github.com/anstrom/sortbench/internal/logging"
	"github.com/anstrom/sortbench/internal/metrics"
)

// Variant identifies one of the insertion sort algorithms.
type Variant string

const (
	VariantBasic        Variant = "basic"
	VariantOptimized    Variant = "optimized"
	VariantBinarySearch Variant = "binary_search"
)

// Counter key suffixes used when mirroring into a metrics.Store.
const (
	KeyComparisons   = "comparisons"
	KeySwaps         = "swaps"
	KeyArrayAccesses = "array_accesses"
	KeyIterations    = "iterations"
)

// Variants returns all variants in their canonical order.
func Variants() []Variant {
	return []Variant{VariantBasic, VariantOptimized, VariantBinarySearch}
}

// ParseVariant maps a variant name to a Variant.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", errors.NewSortError(errors.CodeInvalidArgument,
			fmt.Sprintf("unknown sort variant %q", s), "")
	}
	return v, nil
}

// Valid reports whether v names a known variant.
func (v Variant) Valid() bool {
	switch v {
	case VariantBasic, VariantOptimized, VariantBinarySearch:
		return true
	}
	return false
}

// Operation is the timer name the variant records its duration under.
func (v Variant) Operation() string {
	return string(v) + "_sort"
}

// MetricKey builds the store key for one of the variant's counters.
func (v Variant) MetricKey(counter string) string {
	return string(v) + "_" + counter
}

// Result is the outcome of one engine call.
type Result struct {
	Variant  Variant       `json:"variant"`
	Size     int           `json:"size"`
	Counters Counters      `json:"counters"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Engine runs sort variants and mirrors their counters into a store.
// It is safe for concurrent use; the mirrored store keys reflect whichever
// call completed last.
type Engine struct {
	store     metrics.Store
	threshold int
	logger    *logging.Logger

	mu   sync.RWMutex
	last Result
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore sets the store counters are mirrored into. A nil store disables
// mirroring.
func WithStore(store metrics.Store) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithGuardThreshold sets the input length at or below which the optimized
// variant falls back to the basic algorithm.
func WithGuardThreshold(n int) Option {
	return func(e *Engine) {
		e.threshold = n
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine mirroring into the default metrics tracker.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		store:     metrics.Default(),
		threshold: DefaultGuardThreshold,
		logger:    logging.Default().WithComponent("sorting"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GuardThreshold returns the configured fallback threshold.
func (e *Engine) GuardThreshold() int {
	return e.threshold
}

// Run sorts a in place with variant v. A nil slice fails with an
// INVALID_ARGUMENT error before anything is touched.
func Run[T cmp.Ordered](e *Engine, v Variant, a []T) (Result, error) {
	if a == nil {
		return Result{}, errors.ErrInvalidArgument(string(v))
	}
	if !v.Valid() {
		return Result{}, errors.NewSortError(errors.CodeInvalidArgument, "unknown sort variant", string(v))
	}

	if e.store != nil {
		e.store.Reset()
	}

	var c Counters
	start := time.Now()
	switch v {
	case VariantBasic:
		basic(a, &c)
	case VariantOptimized:
		optimized(a, e.threshold, &c)
	case VariantBinarySearch:
		binarySearch(a, &c)
	}
	elapsed := time.Since(start)

	result := Result{
		Variant:  v,
		Size:     len(a),
		Counters: c,
		Elapsed:  elapsed,
	}

	if e.store != nil {
		e.store.RecordDuration(v.Operation(), elapsed)
		e.mirror(v, c)
	}

	e.mu.Lock()
	e.last = result
	e.mu.Unlock()

	e.logger.Debug("Sort completed",
		"variant", v,
		"size", len(a),
		"comparisons", c.Comparisons,
		"swaps", c.Swaps,
		"array_accesses", c.ArrayAccesses,
		"iterations", c.Iterations,
		"elapsed", elapsed)

	return result, nil
}

func (e *Engine) mirror(v Variant, c Counters) {
	e.store.SetMetric(v.MetricKey(KeyComparisons), c.Comparisons)
	e.store.SetMetric(v.MetricKey(KeySwaps), c.Swaps)
	e.store.SetMetric(v.MetricKey(KeyArrayAccesses), c.ArrayAccesses)
	e.store.SetMetric(v.MetricKey(KeyIterations), c.Iterations)
}

// SortBasic sorts a with the basic algorithm.
func (e *Engine) SortBasic(a []int) (Result, error) {
	return Run(e, VariantBasic, a)
}

// SortOptimized sorts a with the guard-element algorithm.
func (e *Engine) SortOptimized(a []int) (Result, error) {
	return Run(e, VariantOptimized, a)
}

// SortWithBinarySearch sorts a with the binary-search algorithm.
func (e *Engine) SortWithBinarySearch(a []int) (Result, error) {
	return Run(e, VariantBinarySearch, a)
}

// Last returns the result of the most recent successful call.
func (e *Engine) Last() Result {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last
}

// Comparisons returns the comparison count of the last call.
func (e *Engine) Comparisons() int64 { return e.Last().Counters.Comparisons }

// Swaps returns the swap count of the last call.
func (e *Engine) Swaps() int64 { return e.Last().Counters.Swaps }

// ArrayAccesses returns the array access count of the last call.
func (e *Engine) ArrayAccesses() int64 { return e.Last().Counters.ArrayAccesses }

// Iterations returns the iteration count of the last call.
func (e *Engine) Iterations() int64 { return e.Last().Counters.Iterations }

// Format renders a as "[a, b, c]", or "null" for a nil slice.
func Format[T any](a []T) string {
	if a == nil {
		return "null"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(&b, v)
	}
	b.WriteByte(']')
	return b.String()
}
