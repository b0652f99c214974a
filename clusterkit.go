package clusterkit

import "context"

// Number is the element constraint shared by the clustering engines.
//
// K-Means needs addition, subtraction and division by a scalar to compute
// cluster means; the default squared-difference distance needs subtraction.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Visitor is the host-facing protocol for column visitors.
//
// The host engine calls Pre, invokes Visit exactly once with an index
// sequence and a column, then calls Post. The index values are never read;
// only len(idx) is consulted. The effective working size is
// min(len(idx), len(col)).
//
// I is the host's index type, T the column element type.
type Visitor[I any, T any] interface {
	// Pre is called before processing begins.
	Pre()

	// Visit runs the full computation over the column. The engine mutates
	// only its own internal state; the column is read-only.
	Visit(ctx context.Context, idx []I, col []T) error

	// Post is called after processing.
	Post()
}

// Group is a single cluster of a partition.
//
// Positions are offsets into the column the partition was derived from, in
// column order. They are non-owning: the column must outlive the group.
type Group[T any] struct {
	// Representative is the value standing for the cluster: the centroid
	// for K-Means, the exemplar element for Affinity Propagation.
	Representative T

	// Positions are the column offsets of the cluster members.
	Positions []int
}

// Partition is the result of assigning every element of the working range to
// its nearest representative. Every position appears in exactly one group.
type Partition[T any] []Group[T]

// Size returns the total number of member positions across all groups.
func (p Partition[T]) Size() int {
	n := 0
	for i := range p {
		n += len(p[i].Positions)
	}
	return n
}

// Values resolves a group's positions against the column it was derived from.
func (g Group[T]) Values(col []T) []T {
	out := make([]T, len(g.Positions))
	for i, pos := range g.Positions {
		out[i] = col[pos]
	}
	return out
}
