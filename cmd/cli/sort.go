package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/anstrom/sortbench/internal/errors"
	"github.com/anstrom/sortbench/internal/logging"
	"github.com/anstrom/sortbench/internal/metrics"
	"github.com/anstrom/sortbench/internal/sorting"
)

func newSortCmd() *cobra.Command {
	var variantName string

	cmd := &cobra.Command{
		Use:   "sort [values...]",
		Short: "Sort integers with one variant and show its counters",
		Long: `Sort the given integers in place with a single insertion sort variant,
then print the sorted array and the operation counters of that call.`,
		Example: `  sortbench sort 5 2 4 6 1 3
  sortbench sort --variant binary_search 3 3 1
  sortbench sort --variant optimized --guard-threshold 2 -- 9 -1 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseValues(args)
			if err != nil {
				return err
			}
			variant, err := sorting.ParseVariant(variantName)
			if err != nil {
				return errors.NewConfigFieldError(errors.CodeValidation, err.Error(), "variant", variantName)
			}
			threshold, err := cmd.Flags().GetInt("guard-threshold")
			if err != nil {
				threshold = sorting.DefaultGuardThreshold
			}
			dump, _ := cmd.Flags().GetBool("dump-metrics")

			return sortValues(cmd.OutOrStdout(), variant, threshold, values, dump)
		},
	}

	cmd.Flags().StringVar(&variantName, "variant", string(sorting.VariantBasic), "Variant: "+variantNames())
	return cmd
}

func parseValues(args []string) ([]int, error) {
	values := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, errors.NewConfigFieldError(errors.CodeValidation,
				fmt.Sprintf("not an integer: %q", arg), "values", arg)
		}
		values = append(values, n)
	}
	return values, nil
}

func sortValues(out io.Writer, variant sorting.Variant, threshold int, values []int, dump bool) error {
	tracker := metrics.NewTracker()
	engine := sorting.NewEngine(
		sorting.WithStore(tracker),
		sorting.WithGuardThreshold(threshold),
		sorting.WithLogger(logging.Default().WithComponent("sorting")),
	)

	res, err := sorting.Run(engine, variant, values)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Sorted (%s): %s\n", variant, sorting.Format(values))
	fmt.Fprintf(out, "%-15s %d\n", "Comparisons:", res.Counters.Comparisons)
	fmt.Fprintf(out, "%-15s %d\n", "Swaps:", res.Counters.Swaps)
	fmt.Fprintf(out, "%-15s %d\n", "ArrayAccesses:", res.Counters.ArrayAccesses)
	fmt.Fprintf(out, "%-15s %d\n", "Iterations:", res.Counters.Iterations)

	if dump {
		fmt.Fprintln(out)
		if _, err := tracker.WriteTo(out); err != nil {
			return err
		}
	}
	return nil
}
