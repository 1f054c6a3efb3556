package embedding

import (
	"crypto/sha256"
	"strings"
)

// MockEmbedder produces deterministic vectors without any API. Identical
// text always yields the identical vector, which is the property the index
// build relies on. Vectors are built from word hashes so texts that share
// vocabulary land near each other under cosine similarity.
type MockEmbedder struct {
	dimension int
}

func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

func (e *MockEmbedder) Embed(texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, e.dimension)
		for _, word := range strings.Fields(strings.ToLower(text)) {
			h := sha256.Sum256([]byte(word))
			idx := (int(h[0])<<8 | int(h[1])) % e.dimension
			vec[idx] += 1
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

func (e *MockEmbedder) Dimension() int {
	return e.dimension
}

func (e *MockEmbedder) ModelName() string {
	return "mock"
}
