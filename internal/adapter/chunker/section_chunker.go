package chunker

import (
	"errors"
	"regexp"
	"strings"

	"tenk/config"
	"tenk/internal/domain"
)

// ErrNoChunks means chunking an already-segmented document produced
// nothing to index. Fatal to ingestion.
var ErrNoChunks = errors.New("no chunks created from document")

// crossRefPattern matches in-document references like "See Note 5" or
// "as discussed in Item 1A". The keyword is case-insensitive; the target
// is a number or a short uppercase code.
var crossRefPattern = regexp.MustCompile(`((?i:see|refer to|as discussed in|note|item|section))\s+(\d+[A-Z]?\b|[A-Z]+\b)`)

// SectionChunker splits sections into overlapping word windows. Table
// sections become exactly one chunk each and are never split. Chunk ids
// are assigned sequentially across the whole document, so identical input
// always yields identical ids.
type SectionChunker struct {
	chunkWords    int
	overlapWords  int
	minChunkWords int
}

func NewSectionChunker(cfg config.ChunkingConfig) *SectionChunker {
	return &SectionChunker{
		chunkWords:    cfg.ChunkWords,
		overlapWords:  cfg.OverlapWords,
		minChunkWords: cfg.MinChunkWords,
	}
}

func (c *SectionChunker) Chunk(sections []domain.Section) ([]domain.Chunk, error) {
	var chunks []domain.Chunk

	for _, section := range sections {
		refs := detectCrossRefs(section.Content)

		if section.Type == domain.TypeTable {
			chunks = append(chunks, domain.Chunk{
				ID:        len(chunks),
				Text:      section.Content,
				Section:   section.Name,
				Page:      section.Page,
				Type:      domain.TypeTable,
				CrossRefs: refs,
			})
			continue
		}

		words := strings.Fields(section.Content)
		stride := c.chunkWords - c.overlapWords
		if stride <= 0 {
			stride = c.chunkWords
		}

		for i := 0; i < len(words); i += stride {
			end := i + c.chunkWords
			if end > len(words) {
				end = len(words)
			}
			if end-i < c.minChunkWords {
				continue
			}
			text := strings.Join(words[i:end], " ")
			chunks = append(chunks, domain.Chunk{
				ID:        len(chunks),
				Text:      text,
				Section:   section.Name,
				Page:      section.Page,
				Type:      domain.TypeText,
				CrossRefs: matchingRefs(refs, text),
			})
		}
	}

	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	return chunks, nil
}

// detectCrossRefs scans a section's raw text for cross-reference matches.
func detectCrossRefs(content string) []domain.CrossReference {
	matches := crossRefPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	refs := make([]domain.CrossReference, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, domain.CrossReference{
			Kind:    m[1],
			Target:  m[2],
			Matched: m[0],
		})
	}
	return refs
}

// matchingRefs keeps the refs whose matched substring appears verbatim in
// the chunk text.
func matchingRefs(refs []domain.CrossReference, text string) []domain.CrossReference {
	var out []domain.CrossReference
	for _, r := range refs {
		if strings.Contains(text, r.Matched) {
			out = append(out, r)
		}
	}
	return out
}
