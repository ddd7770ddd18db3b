package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anstrom/sortbench/internal/errors"
)

// execute runs a fresh command tree with args and captures its output.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestRootRunsBenchmark(t *testing.T) {
	out := filepath.Join(t.TempDir(), "results.csv")

	stdout, _, err := execute(t, "--sizes", "10", "--output", out)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Insertion Sort Benchmark")
	assert.Contains(t, stdout, "Testing size: 10")
	assert.Contains(t, stdout, "Sorted,10,")
	assert.Contains(t, stdout, "Benchmark completed! Results saved to "+out)

	lines := readLines(t, out)
	require.Len(t, lines, 7)
	assert.Equal(t, "Type,Size,Time(ns),Comparisons,Swaps,ArrayAccesses,Iterations", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "Sorted,10,"))
	assert.True(t, strings.HasSuffix(lines[2], ",9,0,27,9"))
}

func TestRunSubcommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "results.csv")

	stdout, _, err := execute(t, "run", "--sizes", "5,6", "--output", out, "--format", "csv")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(stdout, "Type,Size,"), "csv console writes the header once")
	assert.Len(t, readLines(t, out), 13)
}

func TestUnknownArgumentsAreIgnored(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"root positional", []string{"--sizes", "4", "--output", "", "extra", "words"}},
		{"root unknown flag", []string{"--sizes", "4", "--output", "", "--bogus"}},
		{"run unknown flag", []string{"run", "--sizes", "4", "--output", "", "--bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, stdout, "Testing size: 4")
			assert.NotContains(t, stdout, "Benchmark completed!", "no file means no banner")
		})
	}
}

func TestHelpDoesNotBenchmark(t *testing.T) {
	stdout, _, err := execute(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Input distributions:")
	for _, want := range []string{"Random", "Sorted", "ReverseSorted", "NearlySorted", "best case", "worst case"} {
		assert.Contains(t, stdout, want)
	}
	assert.Contains(t, stdout, "--guard-threshold")
	assert.NotContains(t, stdout, "Testing size")
}

func TestMatrixTable(t *testing.T) {
	stdout, _, err := execute(t,
		"--matrix",
		"--variants", "basic,binary_search",
		"--distributions", "sorted",
		"--sizes", "12",
		"--format", "table",
		"--output", "")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Basic/Sorted")
	assert.Contains(t, stdout, "BinarySearch/Sorted")
	assert.NotContains(t, stdout, "Optimized/")
	assert.NotContains(t, stdout, "Random")
}

func TestMetricsOutputs(t *testing.T) {
	promFile := filepath.Join(t.TempDir(), "sortbench.prom")

	stdout, _, err := execute(t,
		"--sizes", "10",
		"--output", "",
		"--dump-metrics",
		"--metrics-file", promFile)
	require.NoError(t, err)

	assert.Contains(t, stdout, "=== Performance Metrics ===")
	assert.Contains(t, stdout, "binary_search_iterations")
	assert.Contains(t, stdout, "binary_search_sort_time_ns")

	data, err := os.ReadFile(promFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sortbench_sort_runs_total")
	assert.Contains(t, string(data), "sortbench_system_last_benchmark_timestamp_seconds")
}

func TestMetricsFileUnwritable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, _, err := execute(t, "--sizes", "3", "--output", "", "--metrics-file", filepath.Join(blocker, "m.prom"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeFileWrite))
}

func TestEnvironmentOverrides(t *testing.T) {
	out := filepath.Join(t.TempDir(), "results.csv")
	t.Setenv("SORTBENCH_BENCHMARK_SIZES", "7")
	t.Setenv("SORTBENCH_BENCHMARK_OUTPUT_FILE", out)
	t.Setenv("SORTBENCH_BENCHMARK_DISTRIBUTIONS", "sorted,reverse-sorted")

	_, _, err := execute(t)
	require.NoError(t, err)

	lines := readLines(t, out)
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "Sorted,7,"))
	assert.True(t, strings.HasPrefix(lines[2], "ReverseSorted,7,"))
}

func TestConfigFileWithFlagOverride(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "results.csv")
	cfgPath := filepath.Join(dir, "sortbench.yaml")
	content := "benchmark:\n  sizes: [5]\n  format: csv\n  output_file: " + out + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	stdout, _, err := execute(t, "--config", cfgPath, "--sizes", "8")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "Type,Size,"), "format comes from the file")
	assert.Contains(t, stdout, "Sorted,8,")
	assert.NotContains(t, stdout, "Sorted,5,")
	assert.FileExists(t, out)
}

func TestInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"--format", "html", "--output", ""}},
		{"unknown variant", []string{"--variants", "shell", "--output", ""}},
		{"unknown distribution", []string{"--distributions", "zigzag", "--output", ""}},
		{"negative size", []string{"--sizes", "-3", "--output", ""}},
		{"zero guard threshold", []string{"--guard-threshold", "0", "--output", ""}},
		{"bad schedule", []string{"serve", "--schedule", "often", "--output", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeValidation), "got %v", err)
			assert.NotContains(t, stdout, "Testing size")
		})
	}
}

func TestSortCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		sorted  string
		iters   string
		wantErr bool
	}{
		{
			name:   "basic",
			args:   []string{"sort", "5", "2", "4", "6", "1", "3"},
			sorted: "Sorted (basic): [1, 2, 3, 4, 5, 6]",
			iters:  "Iterations:     5",
		},
		{
			name:   "binary search",
			args:   []string{"sort", "--variant", "binary_search", "3", "1", "2"},
			sorted: "Sorted (binary_search): [1, 2, 3]",
			iters:  "Iterations:     2",
		},
		{
			name:   "optimized with negative values",
			args:   []string{"sort", "--variant", "optimized", "--guard-threshold", "2", "--", "9", "-1", "4"},
			sorted: "Sorted (optimized): [-1, 4, 9]",
		},
		{
			name:   "no values",
			args:   []string{"sort"},
			sorted: "Sorted (basic): []",
			iters:  "Iterations:     0",
		},
		{
			name:    "not an integer",
			args:    []string{"sort", "1", "two"},
			wantErr: true,
		},
		{
			name:    "unknown variant",
			args:    []string{"sort", "--variant", "shell", "1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Contains(t, stdout, tt.sorted)
			if tt.iters != "" {
				assert.Contains(t, stdout, tt.iters)
			}
		})
	}
}

func TestSortCommandDumpMetrics(t *testing.T) {
	stdout, _, err := execute(t, "sort", "--dump-metrics", "2", "1")
	require.NoError(t, err)

	assert.Contains(t, stdout, "=== Performance Metrics ===")
	assert.Contains(t, stdout, "basic_swaps")
}

func TestStringList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, stringList([]string{"a", " b ", ""}))
	assert.Equal(t, []string{"a", "b"}, stringList("a, b"))
	assert.Equal(t, []string{"1", "x"}, stringList([]interface{}{1, "x"}))
	assert.Empty(t, stringList(nil))
}

func TestIntList(t *testing.T) {
	got, err := intList([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)

	got, err = intList("10, 20,30")
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30}, got)

	_, err = intList("10,abc")
	assert.Error(t, err)
}

func TestParseValues(t *testing.T) {
	got, err := parseValues([]string{"3", "-1", "0"})
	require.NoError(t, err)
	assert.Equal(t, []int{3, -1, 0}, got)

	got, err = parseValues(nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
