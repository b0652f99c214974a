// Package testutil provides deterministic helpers for clusterkit tests.
package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe and satisfies kmeans.Source.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// FixedSource always yields the same sequence of positions, cycling when
// exhausted. Useful for pinning centroid initialization in tests.
type FixedSource struct {
	seq []int
	pos int
}

// NewFixedSource creates a source that yields seq[0], seq[1], ... modulo n.
func NewFixedSource(seq ...int) *FixedSource {
	return &FixedSource{seq: seq}
}

// Intn returns the next fixed position, reduced modulo n.
func (s *FixedSource) Intn(n int) int {
	v := s.seq[s.pos%len(s.seq)]
	s.pos++
	return v % n
}

// Column generates a column of values drawn uniformly from [low, high).
func Column(r *RNG, n int, low, high float64) []float64 {
	col := make([]float64, n)
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range col {
		col[i] = low + (high-low)*r.rand.Float64()
	}
	return col
}

// Index returns an index sequence of length n. The clustering engines only
// consult its length, never its values.
func Index(n int) []uint64 {
	idx := make([]uint64, n)
	for i := range idx {
		idx[i] = uint64(i)
	}
	return idx
}
