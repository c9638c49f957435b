package pipeline

import "math"

// normEpsilon is the floor applied to vector norms during normalization.
// A norm at or below it is treated as exactly this value, so degenerate
// (all-zero) embeddings never cause a division by zero.
const normEpsilon = 1e-10

// NormalizeVector scales v to unit Euclidean norm and returns a new vector.
// When the norm is at or below normEpsilon the components are divided by
// normEpsilon instead; an all-zero vector stays all-zero and the result is
// always finite.
func NormalizeVector(v []float32) []float32 {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}

	norm := math.Sqrt(sumSquares)
	if norm <= normEpsilon {
		norm = normEpsilon
	}

	result := make([]float32, len(v))
	for i, val := range v {
		result[i] = float32(float64(val) / norm)
	}
	return result
}

// NormalizeAll applies NormalizeVector to every vector in a single pass over
// the complete collection. The input is not mutated; the result has the same
// length and order.
func NormalizeAll(vectors [][]float32) [][]float32 {
	result := make([][]float32, len(vectors))
	for i, v := range vectors {
		result[i] = NormalizeVector(v)
	}
	return result
}
