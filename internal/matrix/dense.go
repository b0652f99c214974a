package matrix

// Dense is a square float64 matrix in row-major order, updated in place by
// the message-passing loops.
type Dense struct {
	n    int
	data []float64
}

// NewDense returns a zeroed n x n dense matrix.
func NewDense(n int) *Dense {
	return &Dense{
		n:    n,
		data: make([]float64, n*n),
	}
}

// N returns the matrix order.
func (d *Dense) N() int { return d.n }

// At returns the value at (r, c).
func (d *Dense) At(r, c int) float64 {
	return d.data[r*d.n+c]
}

// Set stores v at (r, c).
func (d *Dense) Set(r, c int, v float64) {
	d.data[r*d.n+c] = v
}
