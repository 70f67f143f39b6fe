package conformal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantileLowerHigher(t *testing.T) {
	values := []float64{10, 1, 9, 2, 8, 3, 7, 4, 6, 5} // 1..10 shuffled

	// h = 0.9 * 9 = 8.1: lower takes index 8, higher index 9.
	assert.Equal(t, 9.0, quantileLower(values, 0.9))
	assert.Equal(t, 10.0, quantileHigher(values, 0.9))

	// h = 0.1 * 9 = 0.9: lower takes index 0, higher index 1.
	assert.Equal(t, 1.0, quantileLower(values, 0.1))
	assert.Equal(t, 2.0, quantileHigher(values, 0.1))

	// Exact index: both rules agree.
	odd := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 3.0, quantileLower(odd, 0.5))
	assert.Equal(t, 3.0, quantileHigher(odd, 0.5))
}

func TestQuantileExtremes(t *testing.T) {
	values := []float64{3, 1, 2}

	assert.Equal(t, 1.0, quantileLower(values, 0))
	assert.Equal(t, 1.0, quantileHigher(values, 0))
	assert.Equal(t, 3.0, quantileLower(values, 1))
	assert.Equal(t, 3.0, quantileHigher(values, 1))
}

func TestQuantileSingleElement(t *testing.T) {
	values := []float64{7}
	assert.Equal(t, 7.0, quantileLower(values, 0.3))
	assert.Equal(t, 7.0, quantileHigher(values, 0.3))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{5, 1, 3, 2, 4}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 3, 2}))
	assert.Equal(t, 7.0, median([]float64{7}))
}

func TestQuantileDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	_ = quantileHigher(values, 0.5)
	assert.Equal(t, []float64{3, 1, 2}, values)
}
