package ports

import (
	"context"

	"nullsim/domain/hypothesis"
)

// EnginePort runs simulation-based hypothesis tests
type EnginePort interface {
	// RunTest validates the spec, simulates the null distribution, and
	// evaluates the observed statistic against it. Pure computation: the only
	// failure mode is an invalid spec.
	RunTest(ctx context.Context, spec hypothesis.TestSpec) (*hypothesis.TestResult, error)
}
