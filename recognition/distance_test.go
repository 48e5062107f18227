package recognition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEuclideanDistance(t *testing.T) {
	assert.InDelta(t, 5.0, EuclideanDistance([]float32{0, 0}, []float32{3, 4}), 1e-9)
	assert.Equal(t, 0.0, EuclideanDistance([]float32{1, 2, 3}, []float32{1, 2, 3}))
}

func TestEuclideanDistanceMalformedInput(t *testing.T) {
	assert.True(t, math.IsInf(EuclideanDistance(nil, nil), 1))
	assert.True(t, math.IsInf(EuclideanDistance([]float32{1}, []float32{1, 2}), 1))
	assert.True(t, math.IsInf(EuclideanDistance([]float32{}, []float32{}), 1))
}
