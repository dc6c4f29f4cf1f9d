package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)

	// Validation errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrEmptySample      = fmt.Errorf("%w: sample is empty", ErrInvalidInput)
	ErrStatMismatch     = errors.New("statistic incompatible with sample kind")
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// Determinism errors
	ErrNonDeterministic = errors.New("non-deterministic result")
	ErrSeedMismatch     = errors.New("seed mismatch")
)

// NewInvalidInputError names the parameter and the constraint it violated.
// Hypothesis test misconfiguration must surface before any simulation runs,
// never as a misleading p-value.
func NewInvalidInputError(param string, reason string) error {
	return fmt.Errorf("%w: parameter %s: %s", ErrInvalidInput, param, reason)
}

// NewNotFoundError creates a not-found error with resource context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsInvalidInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrStatMismatch)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
