// Package distance provides pairwise dissimilarity measures for scalar
// column elements.
package distance

import (
	"fmt"
	"math"

	"github.com/hupe1980/clusterkit"
)

// Func is a pure pairwise dissimilarity measure. It returns a non-negative
// value and is assumed (but not required) to be symmetric.
type Func[T any] func(x, y T) float64

// SquaredDiff returns the squared difference (x-y)^2.
// This is the default measure for both clustering engines.
func SquaredDiff[T clusterkit.Number](x, y T) float64 {
	d := float64(x) - float64(y)
	return d * d
}

// AbsDiff returns the absolute difference |x-y|.
func AbsDiff[T clusterkit.Number](x, y T) float64 {
	return math.Abs(float64(x) - float64(y))
}

// Metric represents a named dissimilarity measure.
type Metric int

const (
	MetricSquaredDiff Metric = iota
	MetricAbsDiff
)

func (m Metric) String() string {
	switch m {
	case MetricSquaredDiff:
		return "SquaredDiff"
	case MetricAbsDiff:
		return "AbsDiff"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Provider returns the distance function for the given metric.
func Provider[T clusterkit.Number](m Metric) (Func[T], error) {
	switch m {
	case MetricSquaredDiff:
		return SquaredDiff[T], nil
	case MetricAbsDiff:
		return AbsDiff[T], nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
