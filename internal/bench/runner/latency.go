package runner

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// LatencyStats summarises recommender invocation times across trials.
type LatencyStats struct {
	Min         time.Duration         `json:"min"`
	Max         time.Duration         `json:"max"`
	Mean        time.Duration         `json:"mean"`
	Median      time.Duration         `json:"median"`
	Stddev      time.Duration         `json:"stddev"`
	Percentiles map[int]time.Duration `json:"percentiles"`
	SampleCount int                   `json:"sample_count"`
}

var reportedPercentiles = []int{50, 90, 99}

func ComputeLatencyStats(durations []time.Duration) LatencyStats {
	stats := LatencyStats{Percentiles: make(map[int]time.Duration, len(reportedPercentiles))}
	if len(durations) == 0 {
		return stats
	}

	sorted := slices.Clone(durations)
	slices.Sort(sorted)

	ns := make([]float64, len(sorted))
	for i, d := range sorted {
		ns[i] = float64(d)
	}

	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]
	stats.Median = percentile(sorted, 50)
	stats.SampleCount = len(sorted)

	// sample std dev is undefined for a single observation
	if len(ns) > 1 {
		mean, std := stat.MeanStdDev(ns, nil)
		stats.Mean = time.Duration(mean)
		stats.Stddev = time.Duration(std)
	} else {
		stats.Mean = sorted[0]
	}

	for _, p := range reportedPercentiles {
		stats.Percentiles[p] = percentile(sorted, p)
	}
	return stats
}

// percentile interpolates linearly between the two closest ranks.
func percentile(sorted []time.Duration, p int) time.Duration {
	switch len(sorted) {
	case 0:
		return 0
	case 1:
		return sorted[0]
	}

	rank := float64(p) / 100 * float64(len(sorted)-1)
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	w := rank - float64(lower)
	return time.Duration(float64(sorted[lower])*(1-w) + float64(sorted[lower+1])*w)
}

func (s LatencyStats) P90() time.Duration { return s.Percentiles[90] }
func (s LatencyStats) P99() time.Duration { return s.Percentiles[99] }

func (s LatencyStats) IsZero() bool {
	return s.SampleCount == 0
}
