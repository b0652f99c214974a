package kmeans

import (
	"context"
	"math"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/clusterkit"
	"github.com/hupe1980/clusterkit/distance"
)

// convergenceThreshold is the per-centroid delta below which an update step
// is considered a no-op.
const convergenceThreshold = 1e-7

// Engine runs Lloyd's algorithm over a single numeric column.
//
// I is the host's index type (only its length is consulted), T the column
// element type. All state is created fresh on each Visit and overwritten by
// the next; nothing is cached across invocations.
type Engine[I any, T clusterkit.Number] struct {
	k           int
	iterations  int
	dfunc       distance.Func[T]
	source      Source
	logger      *clusterkit.Logger
	parallelism int
	emptyPolicy EmptyClusterPolicy

	centroids []T
	inertia   []float64
	fitted    bool
}

var _ clusterkit.Visitor[uint64, float64] = (*Engine[uint64, float64])(nil)

// New creates a K-Means engine with k clusters and the given iteration
// budget. Both must be positive.
func New[I any, T clusterkit.Number](k, iterations int, opts ...Option[T]) (*Engine[I, T], error) {
	if k <= 0 {
		return nil, clusterkit.ErrInvalidK
	}
	if iterations <= 0 {
		return nil, clusterkit.ErrInvalidIterations
	}

	o := options[T]{
		dfunc:       distance.SquaredDiff[T],
		source:      rand.New(rand.NewSource(time.Now().UnixNano())), // nolint gosec
		logger:      clusterkit.NoopLogger(),
		parallelism: 1,
		emptyPolicy: ResetToZero,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Engine[I, T]{
		k:           k,
		iterations:  iterations,
		dfunc:       o.dfunc,
		source:      o.source,
		logger:      o.logger.WithK(k),
		parallelism: o.parallelism,
		emptyPolicy: o.emptyPolicy,
	}, nil
}

// Pre is called by the host before processing begins. No transient state to reset.
func (e *Engine[I, T]) Pre() {}

// Post is called by the host after processing.
func (e *Engine[I, T]) Post() {}

// Visit computes k centroids from the column. The working size is
// min(len(idx), len(col)) and must be at least k.
func (e *Engine[I, T]) Visit(ctx context.Context, idx []I, col []T) error {
	n := min(len(idx), len(col))
	if n < e.k {
		return &clusterkit.ErrInsufficientData{WorkingSize: n, Required: e.k}
	}

	// Pick centroids as random points from the column, with replacement.
	centroids := make([]T, e.k)
	for c := range centroids {
		centroids[c] = col[e.source.Intn(n)]
	}

	assignments := make([]int, n)
	bestDist := make([]float64, n)
	inertia := make([]float64, 0, e.iterations)

	iters := 0
	for iter := 0; iter < e.iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		iters = iter + 1

		if err := e.assign(ctx, col, centroids, assignments, bestDist, n); err != nil {
			return err
		}
		inertia = append(inertia, floats.Sum(bestDist[:n]))

		// Sum up and count points for each cluster.
		sums := make([]T, e.k)
		counts := make([]int, e.k)
		for p := 0; p < n; p++ {
			c := assignments[p]
			sums[c] += col[p]
			counts[c]++
		}

		done := true
		for c := 0; c < e.k; c++ {
			var value T
			if counts[c] > 0 {
				value = sums[c] / T(counts[c])
			} else {
				switch e.emptyPolicy {
				case KeepPrevious:
					value = centroids[c]
				case Reseed:
					value = col[e.source.Intn(n)]
				default:
					// ResetToZero: turn 0/0 into 0/1, so the centroid
					// collapses to the zero value of T.
					value = sums[c]
				}
			}

			if e.dfunc(value, centroids[c]) > convergenceThreshold {
				done = false
				centroids[c] = value
			}
		}

		if done {
			break
		}
	}

	e.centroids = centroids
	e.inertia = inertia
	e.fitted = true

	e.logger.Debug("k-means finished",
		"working_size", n,
		"iterations", iters,
		"inertia", inertia[len(inertia)-1],
	)

	return nil
}

// assign writes, for every element, the index of its nearest centroid and
// the distance to it. Exact ties keep the lowest cluster index.
func (e *Engine[I, T]) assign(ctx context.Context, col, centroids []T, assignments []int, bestDist []float64, n int) error {
	if e.parallelism <= 1 {
		e.assignRange(col, centroids, assignments, bestDist, 0, n)
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)

	chunk := (n + e.parallelism - 1) / e.parallelism
	for start := 0; start < n; start += chunk {
		start := start
		end := min(start+chunk, n)
		g.Go(func() error {
			e.assignRange(col, centroids, assignments, bestDist, start, end)
			return nil
		})
	}

	return g.Wait()
}

func (e *Engine[I, T]) assignRange(col, centroids []T, assignments []int, bestDist []float64, start, end int) {
	for p := start; p < end; p++ {
		best := math.MaxFloat64
		cluster := 0

		for c := 0; c < e.k; c++ {
			if d := e.dfunc(col[p], centroids[c]); d < best {
				best = d
				cluster = c
			}
		}

		assignments[p] = cluster
		bestDist[p] = best
	}
}

// Result returns the k learned centroids. It is nil before Visit has run.
func (e *Engine[I, T]) Result() []T {
	return e.centroids
}

// Inertia returns the per-iteration sum of distances from each element to its
// nearest centroid, sampled at the start of every iteration of the last
// Visit. The sequence is non-increasing.
func (e *Engine[I, T]) Inertia() []float64 {
	return e.inertia
}

// Clusters partitions the column against the learned centroids: every element
// of the working range joins the group of its nearest centroid, lowest
// cluster index on ties. The column must outlive the partition.
func (e *Engine[I, T]) Clusters(idx []I, col []T) (clusterkit.Partition[T], error) {
	if !e.fitted {
		return nil, clusterkit.ErrNotFitted
	}

	n := min(len(idx), len(col))
	parts := make(clusterkit.Partition[T], e.k)
	for c := range parts {
		parts[c] = clusterkit.Group[T]{
			Representative: e.centroids[c],
			Positions:      make([]int, 0, n/e.k+2),
		}
	}

	for p := 0; p < n; p++ {
		best := math.MaxFloat64
		cluster := 0

		for c := 0; c < e.k; c++ {
			if d := e.dfunc(col[p], e.centroids[c]); d < best {
				best = d
				cluster = c
			}
		}

		parts[cluster].Positions = append(parts[cluster].Positions, p)
	}

	return parts, nil
}
