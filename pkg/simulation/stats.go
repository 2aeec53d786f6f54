package simulation

import (
	"math"
	"sort"
)

// Summary holds the statistics of one impact distribution. Percentiles use
// linear interpolation between order statistics.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
}

// Histogram buckets an impact distribution into equal-width bins over
// [min, max]. The last bin is closed on both sides so the maximum lands in it.
type Histogram struct {
	Counts  []int     `json:"counts"`
	Edges   []float64 `json:"bin_edges"`
	Centers []float64 `json:"bin_centers"`
}

// Summarize computes the summary statistics for a non-empty sample.
// The input slice is not modified.
func Summarize(impacts []float64) Summary {
	sorted := make([]float64, len(impacts))
	copy(sorted, impacts)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	variance := 0.0
	for _, v := range sorted {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(sorted))

	return Summary{
		Mean:   mean,
		Median: percentile(sorted, 50),
		Std:    math.Sqrt(variance),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P25:    percentile(sorted, 25),
		P75:    percentile(sorted, 75),
		P90:    percentile(sorted, 90),
		P95:    percentile(sorted, 95),
		P99:    percentile(sorted, 99),
	}
}

// percentile interpolates linearly on an already-sorted sample.
func percentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := q / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// NewHistogram bins the sample into the given number of equal-width buckets.
// A degenerate sample (min == max) gets a single unit-width bucket.
func NewHistogram(impacts []float64, bins int) Histogram {
	if bins <= 0 {
		bins = DefaultBins
	}

	lo, hi := impacts[0], impacts[0]
	for _, v := range impacts {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		hi = lo + 1
	}

	width := (hi - lo) / float64(bins)
	h := Histogram{
		Counts:  make([]int, bins),
		Edges:   make([]float64, bins+1),
		Centers: make([]float64, bins),
	}
	for i := 0; i <= bins; i++ {
		h.Edges[i] = lo + float64(i)*width
	}
	for i := 0; i < bins; i++ {
		h.Centers[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}

	for _, v := range impacts {
		bin := int((v - lo) / width)
		if bin >= bins {
			bin = bins - 1 // max value lands in the last bucket
		}
		h.Counts[bin]++
	}
	return h
}
