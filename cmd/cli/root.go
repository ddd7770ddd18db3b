// Package cli provides the command-line interface for sortbench.
// It implements the Cobra-based command tree: the benchmark itself (root and
// run), ad-hoc sorting of values, and the results server.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anstrom/sortbench/internal/bench"
	"github.com/anstrom/sortbench/internal/config"
	"github.com/anstrom/sortbench/internal/logging"
	"github.com/anstrom/sortbench/internal/sorting"
)

const (
	envPrefix         = "SORTBENCH"
	defaultConfigFile = "sortbench.yaml"
)

// Build information - these will be set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// rootOptions holds the state shared by every command of one command tree.
type rootOptions struct {
	cfgFile string
	verbose bool
	v       *viper.Viper
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "sortbench",
		Short: "Instrumented insertion sort benchmark",
		Long: `sortbench measures three insertion sort variants (basic, optimized and
binary search) by counting comparisons, swaps, array accesses and outer-loop
iterations while they sort generated inputs.

Without a subcommand it runs the benchmark, echoing one CSV row per run to
stdout and writing the same rows to benchmark_results.csv.

Input distributions:
` + distributionHelp(),
		Version:      getVersion(),
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.initConfig(cmd)
		},
		RunE: opts.runBenchmark,
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is ./"+defaultConfigFile+")")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	addBenchmarkFlags(rootCmd, opts.v)

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newSortCmd())
	rootCmd.AddCommand(newServeCmd(opts))

	return rootCmd
}

// Execute runs the command tree until it completes or the process receives
// SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// initConfig wires environment variables into the command's viper instance.
func (o *rootOptions) initConfig(cmd *cobra.Command) {
	o.v.SetEnvPrefix(envPrefix)
	o.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	o.v.AutomaticEnv()

	if err := o.v.BindPFlag("verbose", cmd.Flags().Lookup("verbose")); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to bind verbose flag: %v\n", err)
	}
}

// loadConfig reads the config file, applies flag and environment overrides
// and validates the result. A missing file yields the defaults.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := o.cfgFile
	if path == "" {
		path = defaultConfigFile
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(o.v, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if o.verbose || o.v.GetBool("verbose") {
		cfg.Logging.Level = string(logging.LevelDebug)
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", path)
	}
	return cfg, nil
}

// initLogging installs the configured logger as the default.
func initLogging(cfg *config.Config) *logging.Logger {
	logger, err := logging.New(cfg.LoggerConfig())
	if err != nil {
		logger = logging.NewDefault()
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	logging.SetDefault(logger)
	logger.Debug("Structured logging initialized", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	return logger
}

func distributionHelp() string {
	var b strings.Builder
	for _, d := range bench.Distributions() {
		fmt.Fprintf(&b, "  %-14s %s\n", d, d.Description())
	}
	return b.String()
}

func variantNames() string {
	names := make([]string, 0, len(sorting.Variants()))
	for _, v := range sorting.Variants() {
		names = append(names, string(v))
	}
	return strings.Join(names, ", ")
}

// getVersion returns the version string.
func getVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime)
}

// SetVersion sets the version information (called from main).
func SetVersion(v, c, bt string) {
	version = v
	commit = c
	buildTime = bt
}
