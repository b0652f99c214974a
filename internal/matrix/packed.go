// Package matrix provides the minimal packed and dense float64 matrix
// bookkeeping needed by the clustering engines. It is not a general
// linear-algebra library.
package matrix

// PackedIndex maps the pair (i, j) with i <= j into packed upper-triangular
// storage of an n x n symmetric matrix:
//
//	index(i, j) = i*n + j - i*(i+1)/2
//
// An off-by-one here silently corrupts the similarity matrix, so the mapping
// lives in one tested place.
func PackedIndex(i, j, n int) int {
	return i*n + j - (i*(i+1))/2
}

// Packed is an n x n symmetric float64 matrix stored as the upper triangle,
// n*(n+1)/2 values.
type Packed struct {
	n    int
	data []float64
}

// NewPacked returns a zeroed packed matrix of order n.
func NewPacked(n int) *Packed {
	return &Packed{
		n:    n,
		data: make([]float64, n*(n+1)/2),
	}
}

// N returns the matrix order.
func (p *Packed) N() int { return p.n }

// At returns the value at (i, j). Access is symmetric: At(j, i) == At(i, j).
func (p *Packed) At(i, j int) float64 {
	if i > j {
		i, j = j, i
	}
	return p.data[PackedIndex(i, j, p.n)]
}

// Set stores v at (i, j), normalizing to the upper triangle.
func (p *Packed) Set(i, j int, v float64) {
	if i > j {
		i, j = j, i
	}
	p.data[PackedIndex(i, j, p.n)] = v
}
