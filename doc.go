// Package clusterkit provides unsupervised clustering engines for columnar data.
//
// Clusterkit implements two clustering algorithms as stateless visitors over a
// single ordered numeric column owned by a host tabular-data engine:
//
//   - kmeans: centroid-based K-Means with iterative assignment/update and
//     early convergence detection
//   - affinity: message-passing Affinity Propagation with damped
//     responsibility/availability updates and exemplar selection
//
// # Visitor Protocol
//
// Both engines implement the Visitor interface. The host calls Pre, feeds the
// engine an (index sequence, column) pair once via Visit, then calls Post.
// Index values are never read; only the length matters. The effective working
// size is min(len(idx), len(col)).
//
//	km, err := kmeans.New[uint64, float64](2, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	km.Pre()
//	if err := km.Visit(ctx, idx, col); err != nil {
//	    log.Fatal(err)
//	}
//	km.Post()
//
//	centroids := km.Result()
//	parts, _ := km.Clusters(idx, col)
//
// # Cluster Partitions
//
// After Visit, Clusters partitions the column: every element of the working
// range is assigned to its nearest representative (centroid or exemplar).
// Groups hold column positions, not copies; the column must outlive any
// partition derived from it.
//
// # Distance Functions
//
// The distance subpackage provides the default squared-difference measure and
// alternatives. Any pure func(x, y T) float64 can be supplied via options.
//
// # Determinism
//
// K-Means centroid initialization draws from an injectable random source
// (kmeans.WithSource), so seeded runs are reproducible. Affinity Propagation
// is fully deterministic for a given input.
package clusterkit
