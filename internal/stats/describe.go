// Package stats computes grouped descriptive statistics over cleaned tables.
// Means and deviations are delegated to gonum; this package owns the median
// convention, the missing-value semantics, the rounding contract, and the
// shape of the output table.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the six descriptive statistics for one numeric series.
// Mean, Median, Std, Min and Max are rounded to 4 decimal digits. Std is NaN
// when fewer than two observations exist; it is reported as an explicit
// undefined marker downstream, never as a silent zero.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
}

// Describe computes the six-statistic summary of xs. The caller is expected
// to have excluded missing values already (table.Floats does this); xs of
// length zero yields a zero Count with NaN statistics.
func Describe(xs []float64) Summary {
	n := len(xs)
	if n == 0 {
		nan := math.NaN()
		return Summary{Count: 0, Mean: nan, Median: nan, Std: nan, Min: nan, Max: nan}
	}

	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)

	// Sample standard deviation (n-1 divisor); gonum returns NaN for n==1.
	return Summary{
		Count:  n,
		Mean:   Round4(stat.Mean(xs, nil)),
		Median: Round4(median(sorted)),
		Std:    Round4(stat.StdDev(xs, nil)),
		Min:    Round4(sorted[0]),
		Max:    Round4(sorted[n-1]),
	}
}

// median of a sorted, non-empty series: the middle sample for odd lengths,
// the mean of the middle pair for even lengths.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Round4 rounds to 4 decimal digits, preserving NaN.
func Round4(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Round(v*1e4) / 1e4
}
