package engine

import (
	"nullsim/domain/hypothesis"
)

// pValue computes the empirical p-value of the observed statistic against the
// null distribution. Less counts the fraction of null values at or below the
// observed statistic, greater the fraction at or above, and two-sided doubles
// the smaller tail, capped at 1.
func pValue(null []float64, observed float64, direction hypothesis.Direction) float64 {
	le, ge := 0, 0
	for _, v := range null {
		if v <= observed {
			le++
		}
		if v >= observed {
			ge++
		}
	}

	n := float64(len(null))
	fracLE := float64(le) / n
	fracGE := float64(ge) / n

	switch direction {
	case hypothesis.DirectionLess:
		return fracLE
	case hypothesis.DirectionGreater:
		return fracGE
	default:
		smaller := fracLE
		if fracGE < smaller {
			smaller = fracGE
		}
		p := 2 * smaller
		if p > 1 {
			p = 1
		}
		return p
	}
}
