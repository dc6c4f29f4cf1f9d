package ports

import (
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(name string, seed int64) *rand.Rand

	// ReplicateSeed derives a stable sub-seed for one replicate of a named run.
	// Substreams for distinct replicate indices are disjoint and order-stable,
	// so a parallel worker pool reproduces the same null distribution as a
	// sequential run for the same base seed.
	ReplicateSeed(name string, replicate int, seed int64) int64
}
