package affinity

import (
	"context"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/clusterkit"
	"github.com/hupe1980/clusterkit/distance"
	"github.com/hupe1980/clusterkit/internal/matrix"
)

// Engine runs Affinity Propagation over a single numeric column.
//
// All matrices are created fresh on each Visit and discarded afterwards;
// nothing is cached across invocations. For working size n the similarity
// computation is O(n^2) and each of the fixed number of message-passing
// rounds is O(n^3) in total cell work, which dominates the cost.
type Engine[I any, T clusterkit.Number] struct {
	iterations  int
	dfunc       distance.Func[T]
	damping     float64
	logger      *clusterkit.Logger
	parallelism int
	window      int

	exemplarIdx []int
	exemplars   []T
	fitted      bool
}

var _ clusterkit.Visitor[uint64, float64] = (*Engine[uint64, float64])(nil)

// New creates an Affinity Propagation engine with the given round budget.
// The budget must be positive and the damping factor must lie in (0,1).
func New[I any, T clusterkit.Number](iterations int, opts ...Option[T]) (*Engine[I, T], error) {
	if iterations <= 0 {
		return nil, clusterkit.ErrInvalidIterations
	}

	o := options[T]{
		dfunc:       distance.SquaredDiff[T],
		damping:     DefaultDamping,
		logger:      clusterkit.NoopLogger(),
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.damping <= 0 || o.damping >= 1 {
		return nil, &clusterkit.ErrInvalidDamping{Damping: o.damping}
	}

	return &Engine[I, T]{
		iterations:  iterations,
		dfunc:       o.dfunc,
		damping:     o.damping,
		logger:      o.logger,
		parallelism: o.parallelism,
		window:      o.window,
	}, nil
}

// Pre is called by the host before processing begins. No transient state to reset.
func (e *Engine[I, T]) Pre() {}

// Post is called by the host after processing.
func (e *Engine[I, T]) Post() {}

// Visit selects exemplars from the column. The working size is
// min(len(idx), len(col)) and must be at least 1. A single-element column
// yields that element as its own exemplar without message passing.
func (e *Engine[I, T]) Visit(ctx context.Context, idx []I, col []T) error {
	n := min(len(idx), len(col))
	if n == 0 {
		return &clusterkit.ErrInsufficientData{WorkingSize: 0, Required: 1}
	}
	if n == 1 {
		e.commit(col, []int{0})
		return nil
	}

	simil := e.similarity(col, n)

	respon := matrix.NewDense(n)
	avail := matrix.NewDense(n)

	rounds, err := e.passMessages(ctx, simil, respon, avail, n)
	if err != nil {
		return err
	}

	e.commit(col, exemplarsOf(respon, avail, n))

	e.logger.Debug("affinity propagation finished",
		"working_size", n,
		"rounds", rounds,
		"exemplars", len(e.exemplarIdx),
	)

	return nil
}

// similarity builds the packed upper-triangular similarity matrix:
// s(i,j) = -distance(i,j) off the diagonal, and every diagonal cell is
// overwritten with the global minimum similarity (the self-preference, which
// controls how many exemplars emerge).
func (e *Engine[I, T]) similarity(col []T, n int) *matrix.Packed {
	simil := matrix.NewPacked(n)
	minVal := math.MaxFloat64

	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			val := -e.dfunc(col[i], col[j])
			simil.Set(i, j, val)
			if val < minVal {
				minVal = val
			}
		}
	}

	for i := 0; i < n; i++ {
		simil.Set(i, i, minVal)
	}

	return simil
}

// passMessages runs the damped responsibility/availability rounds. Within a
// round, every responsibility cell is refreshed before any availability cell
// is computed; availabilities therefore read the current round's
// responsibilities. Returns the number of rounds executed.
func (e *Engine[I, T]) passMessages(ctx context.Context, simil *matrix.Packed, respon, avail *matrix.Dense, n int) (int, error) {
	var prev []int
	stable := 0

	for m := 0; m < e.iterations; m++ {
		if err := ctx.Err(); err != nil {
			return m, err
		}

		if err := e.phase(ctx, n, func(i int) {
			e.updateResponsibilities(simil, respon, avail, n, i)
		}); err != nil {
			return m, err
		}

		if err := e.phase(ctx, n, func(i int) {
			e.updateAvailabilities(respon, avail, n, i)
		}); err != nil {
			return m, err
		}

		if e.window > 0 {
			// Only a stable non-empty exemplar set counts as converged;
			// degenerate inputs run the full budget.
			cur := exemplarsOf(respon, avail, n)
			if len(cur) > 0 && slices.Equal(prev, cur) {
				stable++
				if stable >= e.window {
					return m + 1, nil
				}
			} else {
				stable = 0
			}
			prev = cur
		}
	}

	return e.iterations, nil
}

// phase runs fn(i) for every i in [0,n), optionally fanned out. The caller
// guarantees fn writes disjoint cells per i, so parallel execution is
// numerically identical to sequential.
func (e *Engine[I, T]) phase(ctx context.Context, n int, fn func(i int)) error {
	if e.parallelism <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)

	chunk := (n + e.parallelism - 1) / e.parallelism
	for start := 0; start < n; start += chunk {
		start := start
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				fn(i)
			}
			return nil
		})
	}

	return g.Wait()
}

// updateResponsibilities refreshes r(i,j) for one element i and all candidate
// exemplars j:
//
//	r(i,j) = (1-damping)*(s(i,j) - max_{j' != j}[s(i,j') + a(j',i)]) + damping*r_prev(i,j)
//
// The message from i to j is stored at cell (j,i).
func (e *Engine[I, T]) updateResponsibilities(simil *matrix.Packed, respon, avail *matrix.Dense, n, i int) {
	for j := 0; j < n; j++ {
		maxDiff := -math.MaxFloat64

		for jj := 0; jj < n; jj++ {
			if jj == j {
				continue
			}
			if value := simil.At(i, jj) + avail.At(jj, i); value > maxDiff {
				maxDiff = value
			}
		}

		respon.Set(j, i,
			(1-e.damping)*(simil.At(i, j)-maxDiff)+
				e.damping*respon.At(j, i))
	}
}

// updateAvailabilities refreshes a(j,i) for one element i and all candidate
// exemplars j, reading the responsibilities already updated this round:
//
//	a(j,j) = (1-damping)*sum_{i' != j} max(0, r(i',j)) + damping*a_prev(j,j)
//	a(j,i) = (1-damping)*min(0, r(j,j) + sum_{i' != i,j} max(0, r(i',j))) + damping*a_prev(j,i)
func (e *Engine[I, T]) updateAvailabilities(respon, avail *matrix.Dense, n, i int) {
	for j := 0; j < n; j++ {
		if i == j {
			sum := 0.0
			for ii := 0; ii < n; ii++ {
				if ii == i {
					continue
				}
				sum += math.Max(0, respon.At(j, ii))
			}

			avail.Set(j, i, (1-e.damping)*sum+e.damping*avail.At(j, i))
			continue
		}

		sum := 0.0
		for ii := 0; ii < n; ii++ {
			if ii == i || ii == j {
				continue
			}
			sum += math.Max(0, respon.At(j, ii))
		}

		avail.Set(j, i,
			(1-e.damping)*math.Min(0, respon.At(j, j)+sum)+
				e.damping*avail.At(j, i))
	}
}

// exemplarsOf lists the elements whose self-responsibility plus
// self-availability is positive, in column order.
func exemplarsOf(respon, avail *matrix.Dense, n int) []int {
	var out []int
	for i := 0; i < n; i++ {
		if respon.At(i, i)+avail.At(i, i) > 0 {
			out = append(out, i)
		}
	}
	return out
}

func (e *Engine[I, T]) commit(col []T, exemplarIdx []int) {
	e.exemplarIdx = exemplarIdx
	e.exemplars = make([]T, len(exemplarIdx))
	for i, pos := range exemplarIdx {
		e.exemplars[i] = col[pos]
	}
	e.fitted = true
}

// Result returns the exemplar values in column order. It is nil before Visit
// has run and may be empty afterwards: some inputs yield no exemplar, which
// is a data-dependent outcome, not an error.
func (e *Engine[I, T]) Result() []T {
	return e.exemplars
}

// ExemplarIndexes returns the column positions of the exemplars, in column
// order.
func (e *Engine[I, T]) ExemplarIndexes() []int {
	return e.exemplarIdx
}

// Clusters partitions the column against the exemplars: every element of the
// working range joins the group of its nearest exemplar, lowest exemplar
// index on ties. An empty exemplar set yields an empty partition. The column
// must outlive the partition.
func (e *Engine[I, T]) Clusters(idx []I, col []T) (clusterkit.Partition[T], error) {
	if !e.fitted {
		return nil, clusterkit.ErrNotFitted
	}

	if len(e.exemplars) == 0 {
		return clusterkit.Partition[T]{}, nil
	}

	n := min(len(idx), len(col))
	parts := make(clusterkit.Partition[T], len(e.exemplars))
	for c := range parts {
		parts[c] = clusterkit.Group[T]{
			Representative: e.exemplars[c],
			Positions:      make([]int, 0, n/len(e.exemplars)),
		}
	}

	for p := 0; p < n; p++ {
		best := math.MaxFloat64
		cluster := 0

		for c := range e.exemplars {
			if d := e.dfunc(col[p], e.exemplars[c]); d < best {
				best = d
				cluster = c
			}
		}

		parts[cluster].Positions = append(parts[cluster].Positions, p)
	}

	return parts, nil
}
