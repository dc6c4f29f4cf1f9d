package rng

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"

	"nullsim/ports"
)

// StreamAdapter derives deterministic random streams by hashing the stream
// name together with the base seed. Distinct names (and distinct replicate
// indices) yield independent, order-stable substreams, so parallel workers
// reproduce the exact sequential result for a fixed seed.
type StreamAdapter struct{}

// NewStreamAdapter creates a new deterministic stream adapter
func NewStreamAdapter() *StreamAdapter {
	return &StreamAdapter{}
}

var _ ports.RNGPort = (*StreamAdapter)(nil)

// SeededStream creates a deterministic random number generator for a named operation
func (a *StreamAdapter) SeededStream(name string, seed int64) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(name, seed)))
}

// ReplicateSeed derives a stable sub-seed for one replicate of a named run
func (a *StreamAdapter) ReplicateSeed(name string, replicate int, seed int64) int64 {
	return deriveSeed(fmt.Sprintf("%s/replicate-%d", name, replicate), seed)
}

// deriveSeed folds SHA-256(name, seed) into an int64 source seed
func deriveSeed(name string, seed int64) int64 {
	h := sha256.New()
	h.Write([]byte(name))
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(seed))
	h.Write(buf[:])
	sum := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8]))
}
