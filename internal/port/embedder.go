package port

// Embedder generates vector embeddings for text. Implementations must be
// deterministic for identical input so that re-embedding the same chunk set
// yields the same index.
type Embedder interface {
	// Embed generates embeddings for the given texts.
	// Returns a slice of vectors, one per input text.
	Embed(texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}

// VectorStore stores and searches embedding vectors with their source text
// and metadata. Build-time writes are append-only; query-time access is
// read-only.
type VectorStore interface {
	// Upsert adds or updates entries in the store.
	Upsert(items []VectorItem) error

	// Search finds the k nearest entries to the query, best first.
	Search(query []float32, k int) ([]VectorResult, error)

	// Count returns the number of entries in the store.
	Count() (int, error)

	// Close releases the underlying database.
	Close() error
}

// VectorItem is an entry to be stored.
type VectorItem struct {
	ID       string            // Chunk id ("chunk_{n}")
	Vector   []float32         // Embedding vector
	Text     string            // Raw chunk text
	Metadata map[string]string // section, page, type, chunk_id
}

// VectorResult is a search result.
type VectorResult struct {
	ID       string
	Score    float64 // Similarity score (higher is better)
	Text     string
	Metadata map[string]string
}
