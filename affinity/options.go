package affinity

import (
	"github.com/hupe1980/clusterkit"
	"github.com/hupe1980/clusterkit/distance"
)

// DefaultDamping is the damping factor used when none is configured.
const DefaultDamping = 0.9

type options[T clusterkit.Number] struct {
	dfunc       distance.Func[T]
	damping     float64
	logger      *clusterkit.Logger
	parallelism int
	window      int
}

// Option configures an Affinity Propagation engine.
type Option[T clusterkit.Number] func(*options[T])

// WithDistanceFunc overrides the default squared-difference measure.
func WithDistanceFunc[T clusterkit.Number](f distance.Func[T]) Option[T] {
	return func(o *options[T]) {
		if f != nil {
			o.dfunc = f
		}
	}
}

// WithDamping sets the damping factor blending previous and freshly computed
// message values each round. Must lie strictly inside (0,1); New rejects
// anything else. Defaults to DefaultDamping.
func WithDamping[T clusterkit.Number](d float64) Option[T] {
	return func(o *options[T]) {
		o.damping = d
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

// WithParallelism fans each message-passing phase out over up to n
// goroutines. Phases stay strictly ordered (responsibilities before
// availabilities within a round), so results are identical to the sequential
// run. Values below 2 keep the engine sequential.
func WithParallelism[T clusterkit.Number](n int) Option[T] {
	return func(o *options[T]) {
		o.parallelism = n
	}
}

// WithConvergenceWindow stops message passing early once the exemplar set has
// been unchanged for w consecutive rounds. Zero (the default) disables the
// check and runs the full iteration budget, matching the historical
// fixed-count behavior.
func WithConvergenceWindow[T clusterkit.Number](w int) Option[T] {
	return func(o *options[T]) {
		o.window = w
	}
}
