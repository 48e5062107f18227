package recognition

import "math"

// EuclideanDistance returns the L2 norm of the difference between two
// embedding vectors. Mismatched or empty vectors yield +Inf so that a
// malformed embedding can never produce an accepted match while matching
// itself still completes.
func EuclideanDistance(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
