package sorting

import (
	"cmp"
)

// DefaultGuardThreshold is the largest input length for which the optimized
// variant runs the basic algorithm instead of the guard-element version.
// Small inputs do not amortise the extra minimum scan.
const DefaultGuardThreshold = 10

// Counters holds the operation counts of exactly one sort call.
type Counters struct {
	Comparisons   int64 `json:"comparisons"`
	Swaps         int64 `json:"swaps"`
	ArrayAccesses int64 `json:"array_accesses"`
	Iterations    int64 `json:"iterations"`
}

// Basic sorts a in place with plain insertion sort and returns its counters.
func Basic[T cmp.Ordered](a []T) Counters {
	var c Counters
	basic(a, &c)
	return c
}

// Optimized sorts a in place with guard-element insertion sort. Inputs of
// length <= threshold are handed to the basic algorithm unchanged.
func Optimized[T cmp.Ordered](a []T, threshold int) Counters {
	var c Counters
	optimized(a, threshold, &c)
	return c
}

// BinarySearch sorts a in place, locating each insertion point by binary
// search over the sorted prefix.
func BinarySearch[T cmp.Ordered](a []T) Counters {
	var c Counters
	binarySearch(a, &c)
	return c
}

func basic[T cmp.Ordered](a []T, c *Counters) {
	if len(a) <= 1 {
		return
	}

	for i := 1; i < len(a); i++ {
		c.Iterations++
		key := a[i]
		c.ArrayAccesses++
		j := i - 1

		// The failing boundary test is counted too.
		for j >= 0 {
			c.Comparisons++
			c.ArrayAccesses++
			if a[j] > key {
				a[j+1] = a[j]
				c.Swaps++
				c.ArrayAccesses++
				j--
			} else {
				break
			}
		}
		a[j+1] = key
		c.ArrayAccesses++
	}
}

func optimized[T cmp.Ordered](a []T, threshold int, c *Counters) {
	if len(a) <= 1 {
		return
	}
	if len(a) <= threshold {
		basic(a, c)
		return
	}

	minIndex := 0
	for i := 1; i < len(a); i++ {
		c.Comparisons++
		if a[i] < a[minIndex] {
			minIndex = i
		}
	}
	if minIndex != 0 {
		swap(a, 0, minIndex, c)
	}

	// a[0] is now the minimum, so the inner walk stops without a j >= 0 test.
	for i := 2; i < len(a); i++ {
		c.Iterations++
		key := a[i]
		c.ArrayAccesses++
		j := i - 1

		for a[j] > key {
			c.Comparisons++
			a[j+1] = a[j]
			c.Swaps++
			c.ArrayAccesses += 2
			j--
		}
		c.Comparisons++ // the test that ended the walk
		a[j+1] = key
		c.ArrayAccesses++
	}
}

func binarySearch[T cmp.Ordered](a []T, c *Counters) {
	if len(a) <= 1 {
		return
	}

	for i := 1; i < len(a); i++ {
		c.Iterations++
		key := a[i]
		c.ArrayAccesses++

		pos := insertionPoint(a, 0, i-1, key, c)

		for j := i - 1; j >= pos; j-- {
			a[j+1] = a[j]
			c.Swaps++
			c.ArrayAccesses += 2
		}
		a[pos] = key
		c.ArrayAccesses++
	}
}

// insertionPoint searches a[left..right] for key. On the first probe equal to
// key it returns the slot right after that probe, which is not necessarily the
// leftmost or rightmost equal position.
func insertionPoint[T cmp.Ordered](a []T, left, right int, key T, c *Counters) int {
	for left <= right {
		mid := left + (right-left)/2
		c.Comparisons++
		c.ArrayAccesses++

		switch {
		case a[mid] == key:
			return mid + 1
		case a[mid] < key:
			left = mid + 1
		default:
			right = mid - 1
		}
	}
	return left
}

// swap exchanges a[i] and a[j] through a temporary: three writes, four accesses.
func swap[T any](a []T, i, j int, c *Counters) {
	tmp := a[i]
	a[i] = a[j]
	a[j] = tmp
	c.Swaps += 3
	c.ArrayAccesses += 4
}

// IsSorted reports whether a is in non-descending order. Nil, empty and
// single-element slices are sorted.
func IsSorted[T cmp.Ordered](a []T) bool {
	for i := 1; i < len(a); i++ {
		if a[i] < a[i-1] {
			return false
		}
	}
	return true
}
