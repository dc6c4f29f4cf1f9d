package engine

import (
	"math/rand"
	randv2 "math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"nullsim/domain/hypothesis"
)

// pcgStream is the second PCG seed word; replicate identity lives entirely in
// the first word, derived per replicate by the RNG port.
const pcgStream = 0xda3e39cb94b95bdb

// bootstrapReplicate draws one with-replacement resample of size n from the
// observed values, computes the statistic, and shifts it by
// (nullValue - observed). Convention: we resample the original sample and
// recenter the resulting statistic distribution onto the hypothesized
// parameter, which is equivalent to resampling a null-shifted population. The
// observed statistic compared against this distribution stays unshifted.
func bootstrapReplicate(values []float64, stat hypothesis.StatKind, observed, nullValue float64, seed int64) (float64, error) {
	rng := rand.New(rand.NewSource(seed))
	n := len(values)
	resample := make([]float64, n)
	for j := 0; j < n; j++ {
		resample[j] = values[rng.Intn(n)]
	}
	replicateStat, err := numericStatistic(resample, stat)
	if err != nil {
		return 0, err
	}
	return replicateStat + (nullValue - observed), nil
}

// nullModelReplicate simulates one resample directly from the null model: n
// independent Bernoulli(nullValue) outcomes, reduced to the success fraction.
// Unlike bootstrapping the raw categorical sample, this enforces the null.
func nullModelReplicate(n int, nullValue float64, seed int64) float64 {
	bern := distuv.Bernoulli{
		P:   nullValue,
		Src: randv2.NewPCG(uint64(seed), pcgStream),
	}
	successes := 0
	for j := 0; j < n; j++ {
		if bern.Rand() == 1 {
			successes++
		}
	}
	return float64(successes) / float64(n)
}
