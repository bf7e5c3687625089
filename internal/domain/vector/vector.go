// Package vector holds the similarity math used by local ranking.
package vector

import "math"

// Vector is a fixed-dimensionality embedding.
type Vector []float32

// Dim returns the dimensionality.
func (v Vector) Dim() int { return len(v) }

// Dot returns the sum of elementwise products. Callers must pass equal-length vectors.
func Dot(a, b Vector) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Norm returns the Euclidean (L2) norm.
func Norm(v Vector) float64 {
	return math.Sqrt(Dot(v, v))
}

// Cosine returns dot(a,b) / (norm(a)*norm(b)).
//
// Zero-vector policy: when either norm is 0 the similarity is undefined and Cosine
// returns 0 instead of NaN. Callers must pass equal-length vectors.
func Cosine(a, b Vector) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
