package kmeans

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/clusterkit"
	"github.com/hupe1980/clusterkit/testutil"
)

func TestNew_InvalidConfiguration(t *testing.T) {
	_, err := New[uint64, float64](0, 10)
	assert.ErrorIs(t, err, clusterkit.ErrInvalidK)

	_, err = New[uint64, float64](-1, 10)
	assert.ErrorIs(t, err, clusterkit.ErrInvalidK)

	_, err = New[uint64, float64](2, 0)
	assert.ErrorIs(t, err, clusterkit.ErrInvalidIterations)
}

func TestVisit_InsufficientData(t *testing.T) {
	ctx := context.Background()

	e, err := New[uint64, float64](2, 10)
	require.NoError(t, err)

	var insufficient *clusterkit.ErrInsufficientData

	err = e.Visit(ctx, testutil.Index(0), nil)
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, insufficient.WorkingSize)
	assert.Equal(t, 2, insufficient.Required)

	// Working size is capped by the shorter of idx and col.
	err = e.Visit(ctx, testutil.Index(1), []float64{1, 2, 3})
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1, insufficient.WorkingSize)
}

func TestVisit_TwoWellSeparatedClusters(t *testing.T) {
	ctx := context.Background()
	col := []float64{1, 2, 3, 10, 11, 12}
	idx := testutil.Index(len(col))

	e, err := New[uint64, float64](2, 10,
		WithSource[float64](testutil.NewFixedSource(0, 3)),
	)
	require.NoError(t, err)

	e.Pre()
	require.NoError(t, e.Visit(ctx, idx, col))
	e.Post()

	got := append([]float64(nil), e.Result()...)
	sort.Float64s(got)
	assert.InDelta(t, 2.0, got[0], 1e-9)
	assert.InDelta(t, 11.0, got[1], 1e-9)

	// Centroids are the means of their members.
	assert.InDelta(t, stat.Mean(col[:3], nil), got[0], 1e-9)
	assert.InDelta(t, stat.Mean(col[3:], nil), got[1], 1e-9)

	parts, err := e.Clusters(idx, col)
	require.NoError(t, err)
	require.Len(t, parts, 2)

	assert.Equal(t, []int{0, 1, 2}, parts[0].Positions)
	assert.Equal(t, []int{3, 4, 5}, parts[1].Positions)
	assert.InDelta(t, 2.0, parts[0].Representative, 1e-9)
	assert.InDelta(t, 11.0, parts[1].Representative, 1e-9)
	assert.Equal(t, []float64{1, 2, 3}, parts[0].Values(col))
}

func TestVisit_IntegerColumn(t *testing.T) {
	ctx := context.Background()
	col := []int{1, 2, 3, 10, 11, 12}
	idx := testutil.Index(len(col))

	e, err := New[uint64, int](2, 10,
		WithSource[int](testutil.NewFixedSource(0, 3)),
	)
	require.NoError(t, err)
	require.NoError(t, e.Visit(ctx, idx, col))

	got := append([]int(nil), e.Result()...)
	sort.Ints(got)
	assert.Equal(t, []int{2, 11}, got)
}

func TestVisit_EmptyCluster(t *testing.T) {
	// All points identical: with k=3 two clusters receive no members after
	// the first assignment.
	ctx := context.Background()
	col := []float64{5, 5, 5, 5}
	idx := testutil.Index(len(col))

	tests := []struct {
		name     string
		policy   EmptyClusterPolicy
		expected []float64
	}{
		// Default: the emptied centroid collapses to the zero value, not
		// its previous value.
		{"ResetToZero", ResetToZero, []float64{0, 0, 5}},
		{"KeepPrevious", KeepPrevious, []float64{5, 5, 5}},
		{"Reseed", Reseed, []float64{5, 5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New[uint64, float64](3, 10,
				WithSource[float64](testutil.NewFixedSource(0, 1, 2)),
				WithEmptyClusterPolicy[float64](tt.policy),
			)
			require.NoError(t, err)
			require.NoError(t, e.Visit(ctx, idx, col))

			got := append([]float64(nil), e.Result()...)
			sort.Float64s(got)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestVisit_SeededDeterminism(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(42)
	col := testutil.Column(rng, 200, 0, 100)
	idx := testutil.Index(len(col))

	run := func() []float64 {
		e, err := New[uint64, float64](4, 25,
			WithSource[float64](testutil.NewRNG(7)),
		)
		require.NoError(t, err)
		require.NoError(t, e.Visit(ctx, idx, col))
		return e.Result()
	}

	assert.Equal(t, run(), run())
}

func TestVisit_InertiaNonIncreasing(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(1)
	col := testutil.Column(rng, 300, 0, 1000)
	idx := testutil.Index(len(col))

	e, err := New[uint64, float64](5, 30,
		WithSource[float64](testutil.NewRNG(2)),
	)
	require.NoError(t, err)
	require.NoError(t, e.Visit(ctx, idx, col))

	inertia := e.Inertia()
	require.NotEmpty(t, inertia)
	for i := 1; i < len(inertia); i++ {
		assert.LessOrEqual(t, inertia[i], inertia[i-1]+1e-9, "iteration %d", i)
	}
}

func TestClusters_TotalDisjointCover(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(3)
	col := testutil.Column(rng, 150, -50, 50)
	idx := testutil.Index(len(col))

	e, err := New[uint64, float64](6, 15,
		WithSource[float64](testutil.NewRNG(4)),
	)
	require.NoError(t, err)
	require.NoError(t, e.Visit(ctx, idx, col))

	parts, err := e.Clusters(idx, col)
	require.NoError(t, err)
	require.Len(t, parts, 6)

	assert.Equal(t, len(col), parts.Size())

	seen := make(map[int]bool, len(col))
	for _, g := range parts {
		for _, pos := range g.Positions {
			assert.False(t, seen[pos], "position %d in more than one group", pos)
			seen[pos] = true
		}
	}
	assert.Len(t, seen, len(col))
}

func TestClusters_NotFitted(t *testing.T) {
	e, err := New[uint64, float64](2, 10)
	require.NoError(t, err)

	_, err = e.Clusters(testutil.Index(3), []float64{1, 2, 3})
	assert.ErrorIs(t, err, clusterkit.ErrNotFitted)
}

func TestVisit_ParallelMatchesSequential(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(11)
	col := testutil.Column(rng, 500, 0, 10)
	idx := testutil.Index(len(col))

	run := func(parallelism int) []float64 {
		e, err := New[uint64, float64](8, 20,
			WithSource[float64](testutil.NewRNG(12)),
			WithParallelism[float64](parallelism),
		)
		require.NoError(t, err)
		require.NoError(t, e.Visit(ctx, idx, col))
		return e.Result()
	}

	assert.Equal(t, run(1), run(4))
}

func TestVisit_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e, err := New[uint64, float64](2, 1000,
		WithSource[float64](testutil.NewRNG(5)),
	)
	require.NoError(t, err)

	col := testutil.Column(testutil.NewRNG(6), 100, 0, 1)
	err = e.Visit(ctx, testutil.Index(len(col)), col)
	assert.ErrorIs(t, err, context.Canceled)
}

func BenchmarkVisit(b *testing.B) {
	ctx := context.Background()
	rng := testutil.NewRNG(9)
	col := testutil.Column(rng, 2000, 0, 1000)
	idx := testutil.Index(len(col))

	e, err := New[uint64, float64](8, 25,
		WithSource[float64](testutil.NewRNG(10)),
	)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := e.Visit(ctx, idx, col); err != nil {
			b.Fatal(err)
		}
	}
}
