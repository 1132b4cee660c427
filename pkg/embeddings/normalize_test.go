package embeddings

import (
	"math"
	"testing"
)

func TestNormalizePadsShortVectors(t *testing.T) {
	raw := make([]float32, 10)
	for i := range raw {
		raw[i] = float32(i + 1)
	}

	out := Normalize(raw, Dimensions)
	if len(out) != Dimensions {
		t.Fatalf("expected length %d, got %d", Dimensions, len(out))
	}
	for i := 0; i < 10; i++ {
		if out[i] != raw[i] {
			t.Errorf("component %d: expected %f, got %f", i, raw[i], out[i])
		}
	}
	for i := 10; i < Dimensions; i++ {
		if out[i] != 0 {
			t.Fatalf("component %d: expected zero padding, got %f", i, out[i])
		}
	}
}

func TestNormalizeTruncatesLongVectors(t *testing.T) {
	raw := make([]float32, Dimensions+50)
	for i := range raw {
		raw[i] = 1
	}

	out := Normalize(raw, Dimensions)
	if len(out) != Dimensions {
		t.Fatalf("expected length %d, got %d", Dimensions, len(out))
	}
}

func TestNormalizeReplacesNonFinite(t *testing.T) {
	raw := []float32{1, float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1)), 2}

	out := Normalize(raw, 5)
	want := []float32{1, 0, 0, 0, 2}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("component %d: expected %f, got %f", i, want[i], out[i])
		}
	}
}

func TestValid(t *testing.T) {
	if Valid(make([]float32, 10), Dimensions) {
		t.Error("short vector should not be valid")
	}
	if !Valid(make([]float32, Dimensions), Dimensions) {
		t.Error("exact-length finite vector should be valid")
	}

	bad := make([]float32, Dimensions)
	bad[3] = float32(math.NaN())
	if Valid(bad, Dimensions) {
		t.Error("vector with NaN should not be valid")
	}
}

func TestIsZero(t *testing.T) {
	if !IsZero(Zero(Dimensions)) {
		t.Error("sentinel should be zero")
	}
	if !IsZero(nil) {
		t.Error("nil should be zero")
	}
	if IsZero([]float32{0, 0.1}) {
		t.Error("non-zero vector misreported")
	}
}

func TestCosine(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{1, 0, 0}
	if got := Cosine(a, b); math.Abs(float64(got)-1) > 1e-6 {
		t.Errorf("expected similarity 1, got %f", got)
	}

	c := []float32{0, 1, 0}
	if got := Cosine(a, c); got != 0 {
		t.Errorf("expected similarity 0, got %f", got)
	}

	if got := Cosine(a, []float32{0, 0, 0}); got != 0 {
		t.Errorf("zero-magnitude vector should yield 0, got %f", got)
	}
}

func TestUnit(t *testing.T) {
	u := Unit([]float32{3, 4})
	if math.Abs(float64(u[0])-0.6) > 1e-6 || math.Abs(float64(u[1])-0.8) > 1e-6 {
		t.Errorf("unexpected unit vector %v", u)
	}

	z := Unit([]float32{0, 0})
	if z[0] != 0 || z[1] != 0 {
		t.Errorf("zero vector should pass through, got %v", z)
	}
}
