package engine

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"nullsim/domain/hypothesis"
	"nullsim/domain/sample"
)

// numericStatistic computes the configured statistic over numeric values
func numericStatistic(values []float64, stat hypothesis.StatKind) (float64, error) {
	switch stat {
	case hypothesis.StatMean:
		return stats.Mean(values)
	case hypothesis.StatMedian:
		return stats.Median(values)
	}
	return 0, fmt.Errorf("statistic %q is not numeric", stat)
}

// observedStatistic applies the statistic directly to the unmodified sample.
// This is the value compared against the simulated null distribution; it is
// never itself resampled or shifted.
func observedStatistic(s sample.Sample, stat hypothesis.StatKind) (float64, error) {
	if stat == hypothesis.StatProp {
		return float64(s.SuccessCount()) / float64(s.Len()), nil
	}
	return numericStatistic(s.Values(), stat)
}
