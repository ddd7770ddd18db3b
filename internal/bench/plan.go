package bench

import (
	"slices"

	"github.com/anstrom/sortbench/internal/sorting"
)

// Case is one (variant, distribution) pair run at every size.
type Case struct {
	Type         string
	Variant      sorting.Variant
	Distribution Distribution
}

// VariantLabel is the display name of a variant in report rows.
func VariantLabel(v sorting.Variant) string {
	switch v {
	case sorting.VariantBasic:
		return "Basic"
	case sorting.VariantOptimized:
		return "Optimized"
	case sorting.VariantBinarySearch:
		return "BinarySearch"
	}
	return string(v)
}

// DefaultPlan is the classic row set: the basic sort on every distribution,
// then the optimized sort on nearly sorted input and the binary-search sort
// on random input.
func DefaultPlan() []Case {
	plan := make([]Case, 0, 6)
	for _, d := range Distributions() {
		plan = append(plan, Case{Type: string(d), Variant: sorting.VariantBasic, Distribution: d})
	}
	return append(plan,
		Case{Type: VariantLabel(sorting.VariantOptimized), Variant: sorting.VariantOptimized, Distribution: NearlySorted},
		Case{Type: VariantLabel(sorting.VariantBinarySearch), Variant: sorting.VariantBinarySearch, Distribution: Random},
	)
}

// MatrixPlan runs every variant against every distribution. Rows are typed
// "<Variant>/<Distribution>".
func MatrixPlan(variants []sorting.Variant, distributions []Distribution) []Case {
	plan := make([]Case, 0, len(variants)*len(distributions))
	for _, v := range variants {
		for _, d := range distributions {
			plan = append(plan, Case{
				Type:         VariantLabel(v) + "/" + string(d),
				Variant:      v,
				Distribution: d,
			})
		}
	}
	return plan
}

// BuildPlan selects the plan for cfg. Outside matrix mode the default plan is
// filtered down to the configured variants and distributions; empty filters
// keep everything.
func BuildPlan(cfg Config) []Case {
	variants := cfg.Variants
	if len(variants) == 0 {
		variants = sorting.Variants()
	}
	distributions := cfg.Distributions
	if len(distributions) == 0 {
		distributions = Distributions()
	}

	if cfg.Matrix {
		return MatrixPlan(variants, distributions)
	}

	var plan []Case
	for _, c := range DefaultPlan() {
		if slices.Contains(variants, c.Variant) && slices.Contains(distributions, c.Distribution) {
			plan = append(plan, c)
		}
	}
	return plan
}
