package conformal

import (
	"math"
	"sort"
)

// quantileLower returns the q-th quantile of values using the "lower"
// interpolation rule: the sorted element at index floor(q*(n-1)).
func quantileLower(values []float64, q float64) float64 {
	s := sortedCopy(values)
	h := q * float64(len(s)-1)
	i := int(math.Floor(h))
	return s[clampIndex(i, len(s))]
}

// quantileHigher returns the q-th quantile of values using the "higher"
// interpolation rule: the sorted element at index ceil(q*(n-1)).
func quantileHigher(values []float64, q float64) float64 {
	s := sortedCopy(values)
	h := q * float64(len(s)-1)
	i := int(math.Ceil(h))
	return s[clampIndex(i, len(s))]
}

// median returns the sample median, averaging the two central elements for
// even-length input.
func median(values []float64) float64 {
	s := sortedCopy(values)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

func sortedCopy(values []float64) []float64 {
	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)
	return s
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
