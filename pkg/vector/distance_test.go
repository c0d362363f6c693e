package vector

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	c := []float32{1, 0}

	// Orthogonal vectors -> similarity 0
	if sim := CosineSimilarity(a, b); sim != 0 {
		t.Fatalf("CosineSimilarity(a,b) = %v, want 0", sim)
	}

	// Identical vectors -> similarity 1
	if sim := CosineSimilarity(a, c); math.Abs(sim-1) > 1e-9 {
		t.Fatalf("CosineSimilarity(a,c) = %v, want 1", sim)
	}

	// Opposite vectors -> similarity -1
	if sim := CosineSimilarity(a, []float32{-1, 0}); math.Abs(sim+1) > 1e-9 {
		t.Fatalf("CosineSimilarity(a,-a) = %v, want -1", sim)
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := []float32{0.3, -0.7, 0.2}
	b := []float32{0.1, 0.5, -0.9}

	if CosineSimilarity(a, b) != CosineSimilarity(b, a) {
		t.Fatal("cosine similarity is not symmetric")
	}
}

func TestCosineSimilarityZeroMagnitude(t *testing.T) {
	zero := []float32{0, 0, 0}
	v := []float32{1, 2, 3}

	if sim := CosineSimilarity(zero, v); sim != 0 {
		t.Fatalf("CosineSimilarity(zero,v) = %v, want 0", sim)
	}
	if sim := CosineSimilarity(v, zero); sim != 0 {
		t.Fatalf("CosineSimilarity(v,zero) = %v, want 0", sim)
	}
	if sim := CosineSimilarity(v, []float32{1, 2}); sim != 0 {
		t.Fatalf("mismatched lengths = %v, want 0", sim)
	}
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Fatalf("Normalize(3,4) = %v, want (0.6, 0.8)", v)
	}

	zero := Normalize([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Fatalf("Normalize(zero) = %v, want zero vector", zero)
	}
}
