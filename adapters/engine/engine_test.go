package engine

import (
	"context"
	"math"
	"testing"

	"nullsim/adapters/rng"
	"nullsim/domain/core"
	"nullsim/domain/hypothesis"
	"nullsim/domain/sample"
)

func newTestEngine() *ResamplingEngine {
	return NewResamplingEngine(rng.NewStreamAdapter())
}

// offsets ±1..±15 sum to zero, so the sample mean is exactly 209 with a
// standard deviation around 9.
func meanScenarioSample() sample.Sample {
	values := make([]float64, 0, 30)
	for i := 1; i <= 15; i++ {
		values = append(values, 209+float64(i), 209-float64(i))
	}
	return sample.Numeric(values)
}

func propScenarioSample() sample.Sample {
	labels := make([]string, 62)
	for i := range labels {
		if i < 3 {
			labels[i] = "died"
		} else {
			labels[i] = "survived"
		}
	}
	return sample.Categorical(labels, "died")
}

func TestRunTest_MeanRejectsShiftedNull(t *testing.T) {
	spec := hypothesis.TestSpec{
		Sample:     meanScenarioSample(),
		NullValue:  200,
		Stat:       hypothesis.StatMean,
		Direction:  hypothesis.DirectionTwoSided,
		Replicates: 10000,
		Mode:       hypothesis.ModeBootstrapRecentered,
		Seed:       42,
	}

	result, err := newTestEngine().RunTest(context.Background(), spec)
	if err != nil {
		t.Fatalf("RunTest failed: %v", err)
	}

	if len(result.NullDistribution) != spec.Replicates {
		t.Errorf("expected %d replicates, got %d", spec.Replicates, len(result.NullDistribution))
	}
	if math.Abs(result.Observed-209) > 1e-9 {
		t.Errorf("expected observed mean 209, got %f", result.Observed)
	}
	if result.PValue >= 0.05 {
		t.Errorf("observed mean 209 against null 200 should reject at 0.05, got p=%f", result.PValue)
	}
	// The recentered null distribution must sit on the hypothesized mean
	if math.Abs(result.Summary.Mean-200) > 1 {
		t.Errorf("null distribution should center on 200, got mean %f", result.Summary.Mean)
	}
}

func TestRunTest_PropModerateEvidence(t *testing.T) {
	spec := hypothesis.TestSpec{
		Sample:     propScenarioSample(),
		NullValue:  0.10,
		Stat:       hypothesis.StatProp,
		Direction:  hypothesis.DirectionLess,
		Replicates: 1000,
		Mode:       hypothesis.ModeNullModelDraw,
		Seed:       42,
	}

	result, err := newTestEngine().RunTest(context.Background(), spec)
	if err != nil {
		t.Fatalf("RunTest failed: %v", err)
	}

	expectedObserved := 3.0 / 62.0
	if math.Abs(result.Observed-expectedObserved) > 1e-9 {
		t.Errorf("expected observed proportion %f, got %f", expectedObserved, result.Observed)
	}
	// 3/62 is below 0.10 but not extreme at n=62: moderate evidence, not
	// significant at the 0.01 level
	if result.PValue <= 0.01 {
		t.Errorf("expected p above 0.01, got %f", result.PValue)
	}
	if result.PValue >= 0.5 {
		t.Errorf("expected p below 0.5 for an observed proportion under the null, got %f", result.PValue)
	}
}

func TestRunTest_Determinism(t *testing.T) {
	spec := hypothesis.TestSpec{
		Sample:     meanScenarioSample(),
		NullValue:  205,
		Stat:       hypothesis.StatMean,
		Direction:  hypothesis.DirectionTwoSided,
		Replicates: 2000,
		Mode:       hypothesis.ModeBootstrapRecentered,
		Seed:       7,
	}

	first, err := newTestEngine().RunTest(context.Background(), spec)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := newTestEngine().RunTest(context.Background(), spec)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if first.PValue != second.PValue {
		t.Errorf("p-values differ across runs: %v vs %v", first.PValue, second.PValue)
	}
	for i := range first.NullDistribution {
		if first.NullDistribution[i] != second.NullDistribution[i] {
			t.Fatalf("null distributions differ at replicate %d: %v vs %v",
				i, first.NullDistribution[i], second.NullDistribution[i])
		}
	}
}

func TestRunTest_WorkerCountDoesNotChangeResult(t *testing.T) {
	spec := hypothesis.TestSpec{
		Sample:     propScenarioSample(),
		NullValue:  0.10,
		Stat:       hypothesis.StatProp,
		Direction:  hypothesis.DirectionLess,
		Replicates: 1500,
		Mode:       hypothesis.ModeNullModelDraw,
		Seed:       99,
	}

	serial := newTestEngine()
	serial.SetNumWorkers(1)
	parallel := newTestEngine()
	parallel.SetNumWorkers(8)

	a, err := serial.RunTest(context.Background(), spec)
	if err != nil {
		t.Fatalf("serial run failed: %v", err)
	}
	b, err := parallel.RunTest(context.Background(), spec)
	if err != nil {
		t.Fatalf("parallel run failed: %v", err)
	}

	for i := range a.NullDistribution {
		if a.NullDistribution[i] != b.NullDistribution[i] {
			t.Fatalf("replicate %d differs between 1 and 8 workers", i)
		}
	}
}

func TestRunTest_TwoSidedNearOneWhenObservedMatchesNull(t *testing.T) {
	spec := hypothesis.TestSpec{
		Sample:     meanScenarioSample(),
		NullValue:  209, // exactly the observed mean
		Stat:       hypothesis.StatMean,
		Direction:  hypothesis.DirectionTwoSided,
		Replicates: 5000,
		Mode:       hypothesis.ModeBootstrapRecentered,
		Seed:       42,
	}

	result, err := newTestEngine().RunTest(context.Background(), spec)
	if err != nil {
		t.Fatalf("RunTest failed: %v", err)
	}
	if result.PValue < 0.5 {
		t.Errorf("observed equal to null under a symmetric sample should give a large p, got %f", result.PValue)
	}
}

func TestRunTest_TwoSidedMatchesTailFormula(t *testing.T) {
	spec := hypothesis.TestSpec{
		Sample:     meanScenarioSample(),
		NullValue:  206,
		Stat:       hypothesis.StatMean,
		Direction:  hypothesis.DirectionTwoSided,
		Replicates: 3000,
		Mode:       hypothesis.ModeBootstrapRecentered,
		Seed:       11,
	}

	result, err := newTestEngine().RunTest(context.Background(), spec)
	if err != nil {
		t.Fatalf("RunTest failed: %v", err)
	}

	le, ge := 0, 0
	for _, v := range result.NullDistribution {
		if v <= result.Observed {
			le++
		}
		if v >= result.Observed {
			ge++
		}
	}
	n := float64(len(result.NullDistribution))
	expected := 2 * math.Min(float64(le)/n, float64(ge)/n)
	if expected > 1 {
		expected = 1
	}
	if result.PValue != expected {
		t.Errorf("two-sided p %v does not match tail formula %v", result.PValue, expected)
	}
}

func TestRunTest_MedianStatistic(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}
	spec := hypothesis.TestSpec{
		Sample:     sample.Numeric(values),
		NullValue:  5.5,
		Stat:       hypothesis.StatMedian,
		Direction:  hypothesis.DirectionGreater,
		Replicates: 1000,
		Mode:       hypothesis.ModeBootstrapRecentered,
		Seed:       3,
	}

	result, err := newTestEngine().RunTest(context.Background(), spec)
	if err != nil {
		t.Fatalf("RunTest failed: %v", err)
	}
	if result.Observed != 5.5 {
		t.Errorf("expected observed median 5.5, got %f", result.Observed)
	}
	if result.PValue < 0 || result.PValue > 1 {
		t.Errorf("p-value out of range: %f", result.PValue)
	}
}

func TestRunTest_SingleReplicate(t *testing.T) {
	for _, direction := range []hypothesis.Direction{
		hypothesis.DirectionLess, hypothesis.DirectionGreater, hypothesis.DirectionTwoSided,
	} {
		spec := hypothesis.TestSpec{
			Sample:     meanScenarioSample(),
			NullValue:  200,
			Stat:       hypothesis.StatMean,
			Direction:  direction,
			Replicates: 1,
			Mode:       hypothesis.ModeBootstrapRecentered,
			Seed:       42,
		}

		result, err := newTestEngine().RunTest(context.Background(), spec)
		if err != nil {
			t.Fatalf("direction %s: RunTest failed: %v", direction, err)
		}
		if len(result.NullDistribution) != 1 {
			t.Errorf("direction %s: expected degenerate length-1 distribution, got %d",
				direction, len(result.NullDistribution))
		}
		if result.PValue != 0 && result.PValue != 0.5 && result.PValue != 1 {
			t.Errorf("direction %s: single-replicate p must be 0, 0.5 or 1, got %f",
				direction, result.PValue)
		}
	}
}

func TestRunTest_InvalidInputs(t *testing.T) {
	valid := hypothesis.TestSpec{
		Sample:     meanScenarioSample(),
		NullValue:  200,
		Stat:       hypothesis.StatMean,
		Direction:  hypothesis.DirectionTwoSided,
		Replicates: 100,
		Mode:       hypothesis.ModeBootstrapRecentered,
		Seed:       1,
	}

	tests := []struct {
		name   string
		mutate func(*hypothesis.TestSpec)
	}{
		{"empty sample", func(s *hypothesis.TestSpec) { s.Sample = sample.Numeric(nil) }},
		{"zero replicates", func(s *hypothesis.TestSpec) { s.Replicates = 0 }},
		{"negative replicates", func(s *hypothesis.TestSpec) { s.Replicates = -5 }},
		{"unknown direction", func(s *hypothesis.TestSpec) { s.Direction = "sideways" }},
		{"prop stat on numeric sample", func(s *hypothesis.TestSpec) {
			s.Stat = hypothesis.StatProp
			s.Mode = hypothesis.ModeNullModelDraw
			s.NullValue = 0.5
		}},
		{"mean stat on categorical sample", func(s *hypothesis.TestSpec) { s.Sample = propScenarioSample() }},
		{"proportion null of zero", func(s *hypothesis.TestSpec) {
			s.Sample = propScenarioSample()
			s.Stat = hypothesis.StatProp
			s.Mode = hypothesis.ModeNullModelDraw
			s.NullValue = 0
		}},
		{"proportion null of one", func(s *hypothesis.TestSpec) {
			s.Sample = propScenarioSample()
			s.Stat = hypothesis.StatProp
			s.Mode = hypothesis.ModeNullModelDraw
			s.NullValue = 1
		}},
		{"bootstrap mode for proportions", func(s *hypothesis.TestSpec) {
			s.Sample = propScenarioSample()
			s.Stat = hypothesis.StatProp
			s.NullValue = 0.5
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec := valid
			tc.mutate(&spec)
			_, err := newTestEngine().RunTest(context.Background(), spec)
			if err == nil {
				t.Fatal("expected an error, got none")
			}
			if !core.IsInvalidInputError(err) {
				t.Errorf("expected an invalid-input error, got %v", err)
			}
		})
	}
}

func TestRunTest_PValueAlwaysInUnitInterval(t *testing.T) {
	directions := []hypothesis.Direction{
		hypothesis.DirectionLess, hypothesis.DirectionGreater, hypothesis.DirectionTwoSided,
	}
	for _, direction := range directions {
		for seed := int64(0); seed < 5; seed++ {
			spec := hypothesis.TestSpec{
				Sample:     meanScenarioSample(),
				NullValue:  203,
				Stat:       hypothesis.StatMean,
				Direction:  direction,
				Replicates: 500,
				Mode:       hypothesis.ModeBootstrapRecentered,
				Seed:       seed,
			}
			result, err := newTestEngine().RunTest(context.Background(), spec)
			if err != nil {
				t.Fatalf("direction %s seed %d: %v", direction, seed, err)
			}
			if result.PValue < 0 || result.PValue > 1 {
				t.Errorf("direction %s seed %d: p-value %f out of [0,1]", direction, seed, result.PValue)
			}
		}
	}
}
