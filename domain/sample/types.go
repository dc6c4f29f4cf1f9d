package sample

import (
	"nullsim/domain/core"
)

// Kind classifies the response variable of a sample
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Sample is an immutable sequence of observations: either numeric values or
// categorical labels with a designated success category. It is loaded once and
// never mutated; resampling always works on copies.
type Sample struct {
	kind    Kind
	values  []float64
	labels  []string
	success string
}

// Numeric creates a numeric sample. The input slice is copied so the caller
// can reuse its buffer.
func Numeric(values []float64) Sample {
	cp := make([]float64, len(values))
	copy(cp, values)
	return Sample{kind: KindNumeric, values: cp}
}

// Categorical creates a categorical sample with the given success label.
func Categorical(labels []string, success string) Sample {
	cp := make([]string, len(labels))
	copy(cp, labels)
	return Sample{kind: KindCategorical, labels: cp, success: success}
}

// Kind returns the response kind of the sample
func (s Sample) Kind() Kind {
	return s.kind
}

// Len returns the number of observations
func (s Sample) Len() int {
	if s.kind == KindCategorical {
		return len(s.labels)
	}
	return len(s.values)
}

// Values returns a copy of the numeric observations
func (s Sample) Values() []float64 {
	cp := make([]float64, len(s.values))
	copy(cp, s.values)
	return cp
}

// Labels returns a copy of the categorical observations
func (s Sample) Labels() []string {
	cp := make([]string, len(s.labels))
	copy(cp, s.labels)
	return cp
}

// SuccessLabel returns the designated success category
func (s Sample) SuccessLabel() string {
	return s.success
}

// SuccessCount returns how many observations carry the success label
func (s Sample) SuccessCount() int {
	count := 0
	for _, l := range s.labels {
		if l == s.success {
			count++
		}
	}
	return count
}

// HasLabel reports whether the given category appears in the sample
func (s Sample) HasLabel(label string) bool {
	for _, l := range s.labels {
		if l == label {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants of the sample itself. Statistic
// compatibility is checked by the test spec, not here.
func (s Sample) Validate() error {
	if s.Len() == 0 {
		return core.ErrEmptySample
	}
	if s.kind == KindCategorical {
		if s.success == "" {
			return core.NewInvalidInputError("success_label", "must be set for categorical samples")
		}
		if !s.HasLabel(s.success) {
			return core.NewInvalidInputError("success_label", "must name an observed category")
		}
	}
	return nil
}

// Recode maps numeric observations to categorical labels via the given rule,
// e.g. turning a 0/1 survival flag into "died"/"survived". This is caller-side
// data shaping that happens before a sample reaches the test engine.
func Recode(values []float64, rule func(float64) string, success string) Sample {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = rule(v)
	}
	return Categorical(labels, success)
}
