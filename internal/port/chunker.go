package port

import "tenk/internal/domain"

// Parser converts raw filing markup into an ordered sequence of sections.
type Parser interface {
	Parse(raw string) ([]domain.Section, error)
}

// Chunker splits sections into chunks suitable for embedding.
type Chunker interface {
	Chunk(sections []domain.Section) ([]domain.Chunk, error)
}
