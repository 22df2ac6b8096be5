// Package stats summarizes phenotype samples and round-over-round changes.
// Standard deviations are population (÷n) values.
package stats

import (
	"gonum.org/v1/gonum/stat"
)

// Summary holds the aggregate of one sample
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Summarize computes mean and population standard deviation.
// An empty sample yields the zero Summary.
func Summarize(values []float64) Summary {
	switch len(values) {
	case 0:
		return Summary{}
	case 1:
		// gonum divides by n-1 before rescaling, which is NaN for one value
		return Summary{N: 1, Mean: values[0]}
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	return Summary{N: len(values), Mean: mean, StdDev: std}
}

// MeanChange returns the arithmetic mean of a set of changes, 0 when empty
func MeanChange(changes []float64) float64 {
	if len(changes) == 0 {
		return 0
	}
	return stat.Mean(changes, nil)
}
