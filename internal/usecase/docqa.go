package usecase

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"tenk/internal/domain"
	"tenk/internal/port"
)

const noInfoAnswer = "No relevant information found in the 10-K filing."

const citationExcerptChars = 200

// chunkTagPattern finds ordinal citation tags the model was instructed to
// emit, e.g. "[Chunk 2]".
var chunkTagPattern = regexp.MustCompile(`\[Chunk (\d+)\]`)

// RetrievalCache stores retrieval results between questions so repeated
// questions in a session skip embedding and search.
type RetrievalCache interface {
	Get(question string, topK int) ([]domain.RetrievedChunk, bool)
	Put(question string, topK int, chunks []domain.RetrievedChunk)
}

// DocQAUseCase answers questions from the indexed filing: embed the
// question, retrieve the top-k chunks, ask the model to answer strictly
// from them, then map citation tags in the answer back to chunk metadata.
type DocQAUseCase struct {
	embedder     port.Embedder
	store        port.VectorStore
	llm          port.LLM
	topK         int
	systemPrompt string
	cache        RetrievalCache
	log          *zap.Logger
}

func NewDocQAUseCase(
	embedder port.Embedder,
	store port.VectorStore,
	llm port.LLM,
	topK int,
	systemPrompt string,
	log *zap.Logger,
) *DocQAUseCase {
	if topK <= 0 {
		topK = 5
	}
	return &DocQAUseCase{
		embedder:     embedder,
		store:        store,
		llm:          llm,
		topK:         topK,
		systemPrompt: systemPrompt,
		log:          log,
	}
}

// WithCache enables retrieval caching and returns the use case.
func (u *DocQAUseCase) WithCache(c RetrievalCache) *DocQAUseCase {
	u.cache = c
	return u
}

// Retrieve embeds the question and returns the top-k chunks, best first.
// An empty result means "no relevant information", not failure.
func (u *DocQAUseCase) Retrieve(question string, topK int) ([]domain.RetrievedChunk, error) {
	if u.cache != nil {
		if chunks, hit := u.cache.Get(question, topK); hit {
			return chunks, nil
		}
	}

	embeddings, err := u.embedder.Embed([]string{question})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding returned empty result")
	}

	results, err := u.store.Search(embeddings[0], topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	chunks := make([]domain.RetrievedChunk, 0, len(results))
	for i, r := range results {
		chunks = append(chunks, domain.RetrievedChunk{
			Ordinal:   i,
			Text:      r.Text,
			Section:   r.Metadata[metaSection],
			Page:      pageOrUnknown(r.Metadata[metaPage]),
			Type:      r.Metadata[metaType],
			CrossRefs: decodeCrossRefs(r.Metadata[metaCrossRefs]),
			Score:     r.Score,
		})
	}

	if u.cache != nil {
		u.cache.Put(question, topK, chunks)
	}
	return chunks, nil
}

// Answer runs the full document QA path for one question. Retrieval or
// embedding failures degrade to an empty-citation "no information" answer;
// generation failures propagate so the orchestrator records a tool error.
func (u *DocQAUseCase) Answer(question string) (domain.ToolResult, error) {
	chunks, err := u.Retrieve(question, u.topK)
	if err != nil {
		u.log.Warn("document retrieval failed", zap.Error(err))
		return domain.ToolResult{Answer: noInfoAnswer}, nil
	}
	if len(chunks) == 0 {
		return domain.ToolResult{Answer: noInfoAnswer}, nil
	}

	prompt := buildPrompt(question, chunks)
	answer, err := u.llm.GenerateWithSystem(u.systemPrompt, prompt)
	if err != nil {
		return domain.ToolResult{}, fmt.Errorf("generation failed: %w", err)
	}

	return domain.ToolResult{
		Answer:    answer,
		Citations: ExtractCitations(answer, chunks),
	}, nil
}

// buildPrompt labels each retrieved chunk with its ordinal tag and
// section/page metadata, then instructs the model to answer from that
// context only and cite chunks by tag.
func buildPrompt(question string, chunks []domain.RetrievedChunk) string {
	var context strings.Builder
	for _, ch := range chunks {
		if context.Len() > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "[Chunk %d] (Section: %s, Page: %s)\n%s", ch.Ordinal, ch.Section, ch.Page, ch.Text)
	}

	return fmt.Sprintf(`Question: %s

Context from the 10-K filing:
%s

Please answer the question based on the context provided. Reference specific chunks using [Chunk X] notation when citing information.`, question, context.String())
}

// ExtractCitations scans the generated answer for chunk tags and maps each
// distinct tag back to its chunk's metadata. Tags outside the retrieved
// set are dropped; model output is untrusted.
func ExtractCitations(answer string, chunks []domain.RetrievedChunk) []domain.Citation {
	matches := chunkTagPattern.FindAllStringSubmatch(answer, -1)

	seen := make(map[int]bool)
	var citations []domain.Citation
	for _, m := range matches {
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 0 || idx >= len(chunks) || seen[idx] {
			continue
		}
		seen[idx] = true

		ch := chunks[idx]
		citations = append(citations, domain.Citation{
			SourceType: domain.SourceDocument,
			Text:       excerpt(ch.Text),
			Section:    ch.Section,
			Page:       ch.Page,
			CrossRefs:  ch.CrossRefs,
		})
	}
	return citations
}

func excerpt(text string) string {
	if len(text) <= citationExcerptChars {
		return text
	}
	cut := citationExcerptChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

func pageOrUnknown(page string) string {
	if page == "" {
		return pageUnknown
	}
	return page
}

func decodeCrossRefs(raw string) []domain.CrossReference {
	if raw == "" {
		return nil
	}
	var refs []domain.CrossReference
	if err := json.Unmarshal([]byte(raw), &refs); err != nil {
		return nil
	}
	return refs
}
