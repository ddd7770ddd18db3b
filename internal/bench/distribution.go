package bench

import (
	"fmt"
	"math/rand"
	"strings"
)

// Distribution names an input shape.
type Distribution string

const (
	Random        Distribution = "Random"
	Sorted        Distribution = "Sorted"
	ReverseSorted Distribution = "ReverseSorted"
	NearlySorted  Distribution = "NearlySorted"
)

// Distributions returns every distribution in benchmark order.
func Distributions() []Distribution {
	return []Distribution{Random, Sorted, ReverseSorted, NearlySorted}
}

// Description is the one-line summary shown in help output.
func (d Distribution) Description() string {
	switch d {
	case Random:
		return "Randomly generated arrays"
	case Sorted:
		return "Already sorted arrays (best case)"
	case ReverseSorted:
		return "Reverse sorted arrays (worst case)"
	case NearlySorted:
		return "Mostly sorted arrays with some disorder"
	}
	return ""
}

// ParseDistribution matches a distribution name case-insensitively. Dashes and
// underscores are ignored, so "reverse-sorted" names ReverseSorted.
func ParseDistribution(s string) (Distribution, error) {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	for _, d := range Distributions() {
		if strings.ToLower(string(d)) == norm {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown distribution %q", s)
}

// Generate builds a fresh array of the given size. Random and NearlySorted
// draw from a new generator seeded with seed on every call, so the same
// (distribution, size, seed) always yields the same array.
func Generate(d Distribution, size int, seed int64) []int {
	switch d {
	case Random:
		return randomArray(size, seed)
	case Sorted:
		return sortedArray(size)
	case ReverseSorted:
		return reverseSortedArray(size)
	case NearlySorted:
		return nearlySortedArray(size, seed)
	}
	return nil
}

func randomArray(size int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))
	a := make([]int, size)
	if size == 0 {
		return a
	}
	for i := range a {
		a[i] = rng.Intn(size * 10)
	}
	return a
}

func sortedArray(size int) []int {
	a := make([]int, size)
	for i := range a {
		a[i] = i
	}
	return a
}

func reverseSortedArray(size int) []int {
	a := make([]int, size)
	for i := range a {
		a[i] = size - i - 1
	}
	return a
}

// nearlySortedArray swaps size/20 random index pairs of the identity array.
func nearlySortedArray(size int, seed int64) []int {
	a := sortedArray(size)
	rng := rand.New(rand.NewSource(seed))
	for n := 0; n < size/20; n++ {
		i := rng.Intn(size)
		j := rng.Intn(size)
		a[i], a[j] = a[j], a[i]
	}
	return a
}
