package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquaredDiff(t *testing.T) {
	tests := []struct {
		name     string
		x, y     float64
		expected float64
	}{
		{"Simple", 1, 4, 9},
		{"Zero", 0, 0, 0},
		{"Identical", 3.5, 3.5, 0},
		{"Negative", -2, 2, 16},
		{"Asymmetric args, symmetric result", 7, 3, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SquaredDiff(tt.x, tt.y), 1e-12)
			assert.InDelta(t, SquaredDiff(tt.x, tt.y), SquaredDiff(tt.y, tt.x), 1e-12)
		})
	}
}

func TestSquaredDiff_Int(t *testing.T) {
	assert.InDelta(t, 25.0, SquaredDiff(2, 7), 1e-12)
}

func TestAbsDiff(t *testing.T) {
	assert.InDelta(t, 3.0, AbsDiff(1.0, 4.0), 1e-12)
	assert.InDelta(t, 3.0, AbsDiff(4.0, 1.0), 1e-12)
	assert.InDelta(t, 0.0, AbsDiff(2.0, 2.0), 1e-12)
}

func TestProvider(t *testing.T) {
	f, err := Provider[float64](MetricSquaredDiff)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, f(1, 3), 1e-12)

	f, err = Provider[float64](MetricAbsDiff)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, f(1, 3), 1e-12)

	_, err = Provider[float64](Metric(999))
	assert.Error(t, err)
}

func TestMetricString(t *testing.T) {
	assert.Equal(t, "SquaredDiff", MetricSquaredDiff.String())
	assert.Equal(t, "AbsDiff", MetricAbsDiff.String())
	assert.Equal(t, "Unknown(999)", Metric(999).String())
}
