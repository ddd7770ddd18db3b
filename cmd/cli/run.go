package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anstrom/sortbench/internal/bench"
	"github.com/anstrom/sortbench/internal/config"
	"github.com/anstrom/sortbench/internal/errors"
	"github.com/anstrom/sortbench/internal/logging"
	"github.com/anstrom/sortbench/internal/metrics"
	"github.com/anstrom/sortbench/internal/sorting"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the insertion sort benchmark",
		Long: `Run every planned case once per size and report one row per run.

The default plan runs the basic variant on each distribution, then the
optimized variant on nearly sorted input and the binary search variant on
random input. --matrix runs every variant against every distribution.`,
		Example: `  sortbench run
  sortbench run --sizes 100,1000 --format table
  sortbench run --matrix --variants basic,binary_search --distributions random
  sortbench run --output "" --metrics-file sortbench.prom`,
		Args: cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		RunE: opts.runBenchmark,
	}
}

// benchmarkSession is one configured runner with its metric sinks.
type benchmarkSession struct {
	runner  *bench.Runner
	tracker *metrics.Tracker
	metrics *metrics.PrometheusMetrics
}

func newBenchmarkSession(cmd *cobra.Command, cfg *config.Config, logger *logging.Logger) (*benchmarkSession, error) {
	bc, err := cfg.BenchConfig()
	if err != nil {
		return nil, err
	}

	s := &benchmarkSession{
		tracker: metrics.NewTracker(),
		metrics: metrics.NewPrometheusMetrics(),
	}
	metrics.SetDefault(s.tracker)

	engine := sorting.NewEngine(
		sorting.WithStore(s.tracker),
		sorting.WithGuardThreshold(bc.GuardThreshold),
		sorting.WithLogger(logger.WithComponent("sorting")),
	)
	s.runner = bench.NewRunner(bc,
		bench.WithConsole(cmd.OutOrStdout(), cfg.ConsoleFormat()),
		bench.WithStderr(cmd.ErrOrStderr()),
		bench.WithMetrics(s.metrics),
		bench.WithLogger(logger.WithComponent("bench")),
		bench.WithEngine(engine),
	)
	return s, nil
}

func (o *rootOptions) runBenchmark(cmd *cobra.Command, _ []string) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := initLogging(cfg)

	session, err := newBenchmarkSession(cmd, cfg, logger)
	if err != nil {
		return err
	}

	rep, err := session.runner.Run(cmd.Context())
	if err != nil {
		logger.Error("Benchmark failed", "error", err)
		return err
	}

	return session.finish(cmd, cfg, rep, logger)
}

// finish prints the completion banner and exports metrics.
func (s *benchmarkSession) finish(cmd *cobra.Command, cfg *config.Config, rep *bench.Report, logger *logging.Logger) error {
	out := cmd.OutOrStdout()

	if rep.Saved {
		fmt.Fprintf(out, "\nBenchmark completed! Results saved to %s\n", rep.OutputFile)
	}
	if rep.Failures > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d runs produced unsorted output\n", rep.Failures)
	}

	if cfg.Metrics.DumpStore {
		fmt.Fprintln(out)
		if _, err := s.tracker.WriteTo(out); err != nil {
			return err
		}
	}

	if path := cfg.Metrics.TextfilePath; path != "" {
		if err := s.metrics.WriteTextfile(path); err != nil {
			wrapped := errors.ErrFileWrite(path, err)
			logger.ErrorReport("Failed to write metrics textfile", wrapped, "path", path)
			return wrapped
		}
		logger.InfoReport("Metrics textfile written", "path", path)
	}
	return nil
}
