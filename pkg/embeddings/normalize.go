package embeddings

import "math"

// Dimensions is the fixed embedding dimension used across the engine.
// Stored vectors always have exactly this length.
const Dimensions = 768

// Zero returns the all-zero sentinel vector meaning "no embedding available".
// It is never a valid semantic embedding.
func Zero(dim int) []float32 {
	if dim <= 0 {
		dim = Dimensions
	}
	return make([]float32, dim)
}

// Normalize coerces a raw vector to exactly dim finite components: shorter
// vectors are zero-padded, longer ones truncated, and non-finite components
// replaced with zero.
func Normalize(vec []float32, dim int) []float32 {
	if dim <= 0 {
		dim = Dimensions
	}

	out := make([]float32, dim)
	for i := 0; i < dim && i < len(vec); i++ {
		v := vec[i]
		if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		out[i] = v
	}
	return out
}

// IsZero reports whether vec is empty or all-zero, i.e. the sentinel.
func IsZero(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

// Valid reports whether vec already has exactly dim finite components.
// Stored entries failing this check are treated as corrupt.
func Valid(vec []float32, dim int) bool {
	if dim <= 0 {
		dim = Dimensions
	}
	if len(vec) != dim {
		return false
	}
	for _, v := range vec {
		if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Cosine returns the cosine similarity between two vectors, or 0 when either
// has zero magnitude.
func Cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// Dot returns the plain dot product over the overlapping prefix of a and b.
func Dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	return float32(dot)
}

// Unit returns vec scaled to unit length, or vec unchanged when its magnitude
// is zero.
func Unit(vec []float32) []float32 {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}

	norm = math.Sqrt(norm)
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
