package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anstrom/sortbench/internal/api"
	"github.com/anstrom/sortbench/internal/config"
	"github.com/anstrom/sortbench/internal/logging"
	"github.com/anstrom/sortbench/internal/scheduler"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the benchmark and serve its results over HTTP",
		Long: `Run the benchmark once, then serve Prometheus metrics and the latest
report until interrupted.

With --schedule the benchmark is re-run on a standard 5-field cron
expression (descriptors such as "@every 30m" work too). A run that is still
active when its next tick fires is skipped.`,
		Example: `  sortbench serve
  sortbench serve --port 8080 --sizes 100,1000
  sortbench serve --schedule "*/15 * * * *"`,
		RunE: opts.runServe,
	}

	cmd.Flags().String("host", "127.0.0.1", "Listen address")
	cmd.Flags().Int("port", 9090, "Listen port")
	cmd.Flags().String("schedule", "", "Cron expression for repeated runs")
	bindFlags(cmd, opts.v, cmd.Flags(), serverBindings)

	return cmd
}

func (o *rootOptions) runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := initLogging(cfg)

	session, err := newBenchmarkSession(cmd, cfg, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rep, err := session.runner.Run(ctx)
	if err != nil {
		return err
	}
	if err := session.finish(cmd, cfg, rep, logger); err != nil {
		return err
	}

	var sched *scheduler.Scheduler
	if cfg.Server.Schedule != "" {
		sched, err = startSchedule(cfg, session, logger)
		if err != nil {
			return err
		}
		defer sched.Stop()
	}

	var jobs api.JobLister
	if sched != nil {
		jobs = sched
	}
	server, err := api.New(cfg, session.runner, session.metrics, jobs, version, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Serving results on http://%s\n", server.GetAddress())
	return server.Start(ctx)
}

// startSchedule re-runs the benchmark on cfg.Server.Schedule. Scheduled runs
// refresh the metrics textfile but do not print the completion banner.
func startSchedule(
	cfg *config.Config,
	session *benchmarkSession,
	logger *logging.Logger,
) (*scheduler.Scheduler, error) {
	sched := scheduler.NewScheduler(logger)

	_, err := sched.AddJob("benchmark", cfg.Server.Schedule, func(ctx context.Context) error {
		if _, err := session.runner.Run(ctx); err != nil {
			return err
		}
		if path := cfg.Metrics.TextfilePath; path != "" {
			return session.metrics.WriteTextfile(path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := sched.Start(); err != nil {
		return nil, err
	}
	logger.InfoServer("Scheduled benchmark runs", "schedule", cfg.Server.Schedule)
	return sched, nil
}
