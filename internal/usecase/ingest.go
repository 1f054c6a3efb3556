package usecase

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"tenk/internal/domain"
	"tenk/internal/port"
)

// metadata keys persisted alongside each vector.
const (
	metaSection   = "section"
	metaPage      = "page"
	metaType      = "type"
	metaChunkID   = "chunk_id"
	metaCrossRefs = "cross_refs"
)

const pageUnknown = "unknown"

// IngestUseCase builds the embedding index from the raw filing:
// parse -> section -> chunk -> embed -> persist. Build is idempotent: a
// non-empty index means the document is already ingested and the whole
// pass is skipped.
type IngestUseCase struct {
	parser    port.Parser
	chunker   port.Chunker
	embedder  port.Embedder
	store     port.VectorStore
	batchSize int
	log       *zap.Logger

	// Progress, when set, is called after each embedded batch.
	Progress func(done, total int)
}

func NewIngestUseCase(
	parser port.Parser,
	chunker port.Chunker,
	embedder port.Embedder,
	store port.VectorStore,
	batchSize int,
	log *zap.Logger,
) *IngestUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &IngestUseCase{
		parser:    parser,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		batchSize: batchSize,
		log:       log,
	}
}

// IngestResult reports what an ingestion pass did.
type IngestResult struct {
	Skipped  bool
	Sections int
	Chunks   int
}

// Ingest processes the raw filing markup and populates the vector store.
func (u *IngestUseCase) Ingest(raw string) (*IngestResult, error) {
	count, err := u.store.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to check index: %w", err)
	}
	if count > 0 {
		u.log.Info("vector store already initialized", zap.Int("chunks", count))
		return &IngestResult{Skipped: true, Chunks: count}, nil
	}

	u.log.Info("processing document")

	sections, err := u.parser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	chunks, err := u.chunker.Chunk(sections)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk document: %w", err)
	}
	u.log.Info("created chunks", zap.Int("chunks", len(chunks)))

	if err := u.embedAndStore(chunks); err != nil {
		return nil, err
	}

	u.log.Info("indexed chunks to vector store", zap.Int("chunks", len(chunks)))
	return &IngestResult{Sections: len(sections), Chunks: len(chunks)}, nil
}

func (u *IngestUseCase) embedAndStore(chunks []domain.Chunk) error {
	for i := 0; i < len(chunks); i += u.batchSize {
		end := i + u.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		texts := make([]string, len(batch))
		for j, ch := range batch {
			texts[j] = ch.Text
		}

		vectors, err := u.embedder.Embed(texts)
		if err != nil {
			return fmt.Errorf("failed to embed chunks: %w", err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))
		}

		items := make([]port.VectorItem, len(batch))
		for j, ch := range batch {
			items[j] = port.VectorItem{
				ID:       fmt.Sprintf("chunk_%d", ch.ID),
				Vector:   vectors[j],
				Text:     ch.Text,
				Metadata: chunkMetadata(ch),
			}
		}

		if err := u.store.Upsert(items); err != nil {
			return fmt.Errorf("failed to store vectors: %w", err)
		}

		if u.Progress != nil {
			u.Progress(end, len(chunks))
		}
	}
	return nil
}

func chunkMetadata(ch domain.Chunk) map[string]string {
	page := pageUnknown
	if ch.Page > 0 {
		page = strconv.Itoa(ch.Page)
	}

	meta := map[string]string{
		metaSection: ch.Section,
		metaPage:    page,
		metaType:    ch.Type,
		metaChunkID: strconv.Itoa(ch.ID),
	}

	if len(ch.CrossRefs) > 0 {
		if data, err := json.Marshal(ch.CrossRefs); err == nil {
			meta[metaCrossRefs] = string(data)
		}
	}

	return meta
}
