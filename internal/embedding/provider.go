// Package embedding provides pluggable text-embedding backends and vector
// similarity used by the alignment scorer.
package embedding

import (
	"context"
	"math"
)

// Provider is the capability interface for turning text into vectors.
// Implementations must be deterministic: the same input text always produces
// the same vector, which is what makes content-hash keyed caching sound.
type Provider interface {
	// Embed returns the vector for text. It must honor ctx cancellation and
	// deadlines; backends that block on network I/O return the ctx error.
	Embed(ctx context.Context, text string) ([]float32, error)
	// Name identifies the backend, used for cache keying and logging.
	Name() string
}

// Similarity returns the normalized cosine similarity of two vectors in
// [0,1]. Mismatched or empty vectors yield 0.
func Similarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if cos < 0 {
		return 0
	}
	if cos > 1 {
		return 1
	}
	return cos
}
