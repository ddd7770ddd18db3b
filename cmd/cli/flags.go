package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/anstrom/sortbench/internal/bench"
	"github.com/anstrom/sortbench/internal/config"
	"github.com/anstrom/sortbench/internal/errors"
	"github.com/anstrom/sortbench/internal/sorting"
)

// flagBinding ties a command-line flag to a config key. Viper resolves the
// key from the flag when it was given and from SORTBENCH_* otherwise.
type flagBinding struct {
	flag string
	key  string
}

var benchmarkBindings = []flagBinding{
	{"sizes", "benchmark.sizes"},
	{"seed", "benchmark.seed"},
	{"output", "benchmark.output_file"},
	{"format", "benchmark.format"},
	{"matrix", "benchmark.matrix"},
	{"variants", "benchmark.variants"},
	{"distributions", "benchmark.distributions"},
	{"guard-threshold", "benchmark.guard_threshold"},
	{"metrics-file", "metrics.textfile_path"},
	{"dump-metrics", "metrics.dump_store"},
}

var serverBindings = []flagBinding{
	{"host", "server.host"},
	{"port", "server.port"},
	{"schedule", "server.schedule"},
}

// addBenchmarkFlags registers the benchmark flags as persistent flags so that
// run and serve inherit them.
func addBenchmarkFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()

	flags.IntSlice("sizes", bench.DefaultSizes, "Array sizes to benchmark")
	flags.Int64("seed", bench.DefaultSeed, "Seed for random and nearly sorted inputs")
	flags.String("output", bench.DefaultOutputFile, "CSV results file (empty disables the file)")
	flags.String("format", "text", "Console format: text, table, csv")
	flags.Bool("matrix", false, "Run every variant against every distribution")
	flags.StringSlice("variants", nil, "Variants for matrix mode: "+variantNames())
	flags.StringSlice("distributions", nil, "Distributions to run (default all)")
	flags.Int("guard-threshold", sorting.DefaultGuardThreshold,
		"Largest input the optimized variant hands to the basic sort")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file after the run")
	flags.Bool("dump-metrics", false, "Print the metrics store after the run")

	bindFlags(cmd, v, flags, benchmarkBindings)
}

func bindFlags(cmd *cobra.Command, v *viper.Viper, flags *pflag.FlagSet, bindings []flagBinding) {
	for _, b := range bindings {
		if err := v.BindPFlag(b.key, flags.Lookup(b.flag)); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to bind %s flag: %v\n", b.flag, err)
		}
	}
}

// applyOverrides copies every key that was set by a flag or environment
// variable into cfg. Unset keys keep the config file's values.
func applyOverrides(v *viper.Viper, cfg *config.Config) error {
	if v.IsSet("benchmark.sizes") {
		sizes, err := intList(v.Get("benchmark.sizes"))
		if err != nil {
			return errors.ErrConfigInvalid("benchmark.sizes", v.Get("benchmark.sizes"))
		}
		cfg.Benchmark.Sizes = sizes
	}
	if v.IsSet("benchmark.seed") {
		cfg.Benchmark.Seed = v.GetInt64("benchmark.seed")
	}
	if v.IsSet("benchmark.output_file") {
		cfg.Benchmark.OutputFile = v.GetString("benchmark.output_file")
	}
	if v.IsSet("benchmark.format") {
		cfg.Benchmark.Format = v.GetString("benchmark.format")
	}
	if v.IsSet("benchmark.matrix") {
		cfg.Benchmark.Matrix = v.GetBool("benchmark.matrix")
	}
	if v.IsSet("benchmark.variants") {
		cfg.Benchmark.Variants = stringList(v.Get("benchmark.variants"))
	}
	if v.IsSet("benchmark.distributions") {
		cfg.Benchmark.Distributions = stringList(v.Get("benchmark.distributions"))
	}
	if v.IsSet("benchmark.guard_threshold") {
		cfg.Benchmark.GuardThreshold = v.GetInt("benchmark.guard_threshold")
	}
	if v.IsSet("metrics.textfile_path") {
		cfg.Metrics.TextfilePath = v.GetString("metrics.textfile_path")
	}
	if v.IsSet("metrics.dump_store") {
		cfg.Metrics.DumpStore = v.GetBool("metrics.dump_store")
	}
	if v.IsSet("server.host") {
		cfg.Server.Host = v.GetString("server.host")
	}
	if v.IsSet("server.port") {
		cfg.Server.Port = v.GetInt("server.port")
	}
	if v.IsSet("server.schedule") {
		cfg.Server.Schedule = v.GetString("server.schedule")
	}
	return nil
}

// stringList accepts a flag slice or a comma separated environment value.
func stringList(raw interface{}) []string {
	var parts []string
	switch val := raw.(type) {
	case []string:
		parts = val
	case []interface{}:
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
	case string:
		parts = strings.Split(val, ",")
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intList(raw interface{}) ([]int, error) {
	if ints, ok := raw.([]int); ok {
		return ints, nil
	}

	parts := stringList(raw)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.Trim(p, "[]"))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
