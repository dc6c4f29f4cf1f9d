package hypothesis

import (
	"fmt"

	"nullsim/domain/core"
	"nullsim/domain/sample"
)

// StatKind selects the statistic computed per resample
type StatKind string

const (
	StatMean   StatKind = "mean"
	StatMedian StatKind = "median"
	StatProp   StatKind = "prop"
)

// ParseStatKind parses a string into StatKind
func ParseStatKind(s string) (StatKind, error) {
	switch StatKind(s) {
	case StatMean, StatMedian, StatProp:
		return StatKind(s), nil
	}
	return "", core.NewInvalidInputError("stat_kind", fmt.Sprintf("unknown statistic %q", s))
}

// Direction governs how the p-value is read off the null distribution
type Direction string

const (
	DirectionLess     Direction = "less"
	DirectionGreater  Direction = "greater"
	DirectionTwoSided Direction = "two-sided"
)

// ParseDirection parses a string into Direction
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionLess, DirectionGreater, DirectionTwoSided:
		return Direction(s), nil
	}
	return "", core.NewInvalidInputError("direction", fmt.Sprintf("unknown direction %q", s))
}

// ResampleMode selects how null resamples are generated
type ResampleMode string

const (
	// ModeBootstrapRecentered draws with-replacement resamples from the
	// observed sample and shifts each replicate statistic so the resulting
	// distribution is centered on the hypothesized parameter.
	ModeBootstrapRecentered ResampleMode = "bootstrap_recentered"
	// ModeNullModelDraw simulates each resample directly from the null model:
	// n independent Bernoulli outcomes with the hypothesized success
	// probability. This enforces the null, unlike naive bootstrapping of the
	// raw categorical sample.
	ModeNullModelDraw ResampleMode = "null_model_draw"
)

// ParseResampleMode parses a string into ResampleMode
func ParseResampleMode(s string) (ResampleMode, error) {
	switch ResampleMode(s) {
	case ModeBootstrapRecentered, ModeNullModelDraw:
		return ResampleMode(s), nil
	}
	return "", core.NewInvalidInputError("resample_mode", fmt.Sprintf("unknown mode %q", s))
}

// DefaultModeFor returns the conventional resampling mode for a statistic:
// recentered bootstrap for numeric point nulls, null-model simulation for
// proportions.
func DefaultModeFor(stat StatKind) ResampleMode {
	if stat == StatProp {
		return ModeNullModelDraw
	}
	return ModeBootstrapRecentered
}

// TestSpec is the complete configuration of one hypothesis test run. All
// validation happens here, once, before any simulation starts.
type TestSpec struct {
	Sample     sample.Sample
	NullValue  float64
	Stat       StatKind
	Direction  Direction
	Replicates int
	Mode       ResampleMode
	Seed       int64
}

// Validate checks every spec constraint and reports the first violation with
// the offending parameter named.
func (s TestSpec) Validate() error {
	if err := s.Sample.Validate(); err != nil {
		return err
	}
	switch s.Stat {
	case StatMean, StatMedian:
		if s.Sample.Kind() != sample.KindNumeric {
			return fmt.Errorf("%w: %s requires a numeric sample", core.ErrStatMismatch, s.Stat)
		}
	case StatProp:
		if s.Sample.Kind() != sample.KindCategorical {
			return fmt.Errorf("%w: prop requires a categorical sample", core.ErrStatMismatch)
		}
	default:
		return core.NewInvalidInputError("stat_kind", fmt.Sprintf("unknown statistic %q", s.Stat))
	}
	switch s.Direction {
	case DirectionLess, DirectionGreater, DirectionTwoSided:
	default:
		return core.NewInvalidInputError("direction", fmt.Sprintf("unknown direction %q", s.Direction))
	}
	switch s.Mode {
	case ModeBootstrapRecentered:
		if s.Stat == StatProp {
			return core.NewInvalidInputError("resample_mode", "bootstrap_recentered applies to numeric statistics, use null_model_draw for proportions")
		}
	case ModeNullModelDraw:
		if s.Stat != StatProp {
			return core.NewInvalidInputError("resample_mode", "null_model_draw applies to proportion tests only")
		}
	default:
		return core.NewInvalidInputError("resample_mode", fmt.Sprintf("unknown mode %q", s.Mode))
	}
	if s.Stat == StatProp && (s.NullValue <= 0 || s.NullValue >= 1) {
		// p of exactly 0 or 1 degenerates the null distribution to a point mass
		return core.NewInvalidInputError("null_value", "proportion must lie strictly between 0 and 1")
	}
	if s.Replicates <= 0 {
		return core.NewInvalidInputError("replicate_count", "must be a positive integer")
	}
	return nil
}

// NullDistributionSummary provides key statistics about the null distribution
type NullDistributionSummary struct {
	Mean          float64 `json:"mean"`
	StdDev        float64 `json:"std_dev"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Percentile025 float64 `json:"p2_5"`
	Percentile05  float64 `json:"p5"`
	Percentile95  float64 `json:"p95"`
	Percentile975 float64 `json:"p97_5"`
}

// TestResult is the full outcome of one engine run
type TestResult struct {
	Spec             TestSpec
	NullDistribution []float64
	Observed         float64
	PValue           float64
	Summary          NullDistributionSummary
}

// Decision is the verdict against a significance level
type Decision string

const (
	DecisionRejectNull   Decision = "reject_null"
	DecisionFailToReject Decision = "fail_to_reject"
)

// DecisionReason qualifies the strength of the evidence behind a decision
type DecisionReason string

const (
	ReasonStrongEvidence     DecisionReason = "strong_evidence"
	ReasonMarginalEvidence   DecisionReason = "marginal_evidence"
	ReasonConsistentWithNull DecisionReason = "consistent_with_null"
)

// Decide applies a significance level to a p-value. Evidence within a factor
// of two of alpha on either side is flagged as marginal.
func Decide(pValue, alpha float64) (Decision, DecisionReason) {
	if pValue < alpha {
		if pValue < alpha/2 {
			return DecisionRejectNull, ReasonStrongEvidence
		}
		return DecisionRejectNull, ReasonMarginalEvidence
	}
	if pValue < alpha*2 {
		return DecisionFailToReject, ReasonMarginalEvidence
	}
	return DecisionFailToReject, ReasonConsistentWithNull
}
