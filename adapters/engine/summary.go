package engine

import (
	"github.com/montanaflynn/stats"

	"nullsim/domain/hypothesis"
)

// summarize condenses the null distribution into the statistics renderers and
// repositories carry instead of the full replicate list.
func summarize(null []float64) hypothesis.NullDistributionSummary {
	mean, _ := stats.Mean(null)
	stdDev, _ := stats.StandardDeviation(null)
	min, _ := stats.Min(null)
	max, _ := stats.Max(null)
	p025, _ := stats.Percentile(null, 2.5)
	p05, _ := stats.Percentile(null, 5)
	p95, _ := stats.Percentile(null, 95)
	p975, _ := stats.Percentile(null, 97.5)

	return hypothesis.NullDistributionSummary{
		Mean:          mean,
		StdDev:        stdDev,
		Min:           min,
		Max:           max,
		Percentile025: p025,
		Percentile05:  p05,
		Percentile95:  p95,
		Percentile975: p975,
	}
}
