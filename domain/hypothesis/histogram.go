package hypothesis

// HistogramBin is one bucket of a null-distribution histogram. Extreme marks
// bins that fall in the rejection/extremity region for the run's direction, so
// renderers can shade them.
type HistogramBin struct {
	Lo      float64 `json:"lo"`
	Hi      float64 `json:"hi"`
	Count   int     `json:"count"`
	Extreme bool    `json:"extreme"`
}

// Histogram is the renderer-facing view of a null distribution
type Histogram struct {
	Bins     []HistogramBin `json:"bins"`
	Observed float64        `json:"observed"`
}

// NewHistogram buckets the null distribution into equal-width bins and flags
// the bins at least as extreme as the observed statistic under the given
// direction. For two-sided tests the extremity region covers both tails,
// mirroring the observed statistic around the distribution mean. A degenerate
// distribution (all values equal) collapses into a single bin.
func NewHistogram(values []float64, bins int, observed float64, direction Direction) Histogram {
	if len(values) == 0 || bins <= 0 {
		return Histogram{Observed: observed}
	}

	min, max := values[0], values[0]
	sum := 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	center := sum / float64(len(values))

	extreme := extremeRegion(observed, center, direction)

	if min == max {
		return Histogram{
			Bins:     []HistogramBin{{Lo: min, Hi: max, Count: len(values), Extreme: extreme.overlaps(min, max)}},
			Observed: observed,
		}
	}

	width := (max - min) / float64(bins)
	out := make([]HistogramBin, bins)
	for i := range out {
		lo := min + float64(i)*width
		hi := lo + width
		out[i] = HistogramBin{Lo: lo, Hi: hi, Extreme: extreme.overlaps(lo, hi)}
	}

	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}

	return Histogram{Bins: out, Observed: observed}
}

// region describes the extremity region as up to two open-ended tails
type region struct {
	lowTail  bool
	lowThr   float64
	highTail bool
	highThr  float64
}

func extremeRegion(observed, center float64, direction Direction) region {
	switch direction {
	case DirectionLess:
		return region{lowTail: true, lowThr: observed}
	case DirectionGreater:
		return region{highTail: true, highThr: observed}
	default:
		mirror := 2*center - observed
		lo, hi := observed, mirror
		if lo > hi {
			lo, hi = hi, lo
		}
		return region{lowTail: true, lowThr: lo, highTail: true, highThr: hi}
	}
}

// overlaps reports whether the bin [lo, hi] intersects the extremity region
func (r region) overlaps(lo, hi float64) bool {
	if r.lowTail && lo <= r.lowThr {
		return true
	}
	if r.highTail && hi >= r.highThr {
		return true
	}
	return false
}
