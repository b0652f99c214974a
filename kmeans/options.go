package kmeans

import (
	"github.com/hupe1980/clusterkit"
	"github.com/hupe1980/clusterkit/distance"
)

// Source yields random column positions for centroid initialization.
// *math/rand.Rand satisfies it; tests can supply deterministic sequences.
type Source interface {
	// Intn returns a non-negative pseudo-random number in [0, n).
	Intn(n int) int
}

// EmptyClusterPolicy selects what happens to the centroid of a cluster that
// received zero members during an update step.
type EmptyClusterPolicy int

const (
	// ResetToZero forces the divisor to 1, so the centroid becomes the zero
	// value of the element type. This mirrors the historical behavior and is
	// the default. See the package tests for why this is a sharp edge.
	ResetToZero EmptyClusterPolicy = iota

	// KeepPrevious leaves the centroid unchanged.
	KeepPrevious

	// Reseed replaces the centroid with a random column element.
	Reseed
)

type options[T clusterkit.Number] struct {
	dfunc       distance.Func[T]
	source      Source
	logger      *clusterkit.Logger
	parallelism int
	emptyPolicy EmptyClusterPolicy
}

// Option configures a K-Means engine.
type Option[T clusterkit.Number] func(*options[T])

// WithDistanceFunc overrides the default squared-difference measure.
func WithDistanceFunc[T clusterkit.Number](f distance.Func[T]) Option[T] {
	return func(o *options[T]) {
		if f != nil {
			o.dfunc = f
		}
	}
}

// WithSource injects the random source used for centroid initialization.
// Supplying a seeded source makes runs reproducible.
func WithSource[T clusterkit.Number](s Source) Option[T] {
	return func(o *options[T]) {
		if s != nil {
			o.source = s
		}
	}
}

// WithLogger configures structured logging. Defaults to a no-op logger.
func WithLogger[T clusterkit.Number](l *clusterkit.Logger) Option[T] {
	return func(o *options[T]) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithParallelism fans the assignment step out over up to n goroutines.
// Results are identical to the sequential run; per-element writes are
// disjoint. Values below 2 keep the engine sequential.
func WithParallelism[T clusterkit.Number](n int) Option[T] {
	return func(o *options[T]) {
		o.parallelism = n
	}
}

// WithEmptyClusterPolicy overrides the default ResetToZero behavior.
func WithEmptyClusterPolicy[T clusterkit.Number](p EmptyClusterPolicy) Option[T] {
	return func(o *options[T]) {
		o.emptyPolicy = p
	}
}
