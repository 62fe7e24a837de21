package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CourageStats summarizes the courage distribution of the population.
type CourageStats struct {
	Count int
	Mean  float64
	P10   float64
	P50   float64
	P90   float64
}

// ComputeCourageStats computes distribution statistics over per-agent
// courage samples. An empty sample returns zeros.
func ComputeCourageStats(samples []float64) CourageStats {
	if len(samples) == 0 {
		return CourageStats{}
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	return CourageStats{
		Count: len(sorted),
		Mean:  stat.Mean(sorted, nil),
		P10:   stat.Quantile(0.1, stat.Empirical, sorted, nil),
		P50:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:   stat.Quantile(0.9, stat.Empirical, sorted, nil),
	}
}
