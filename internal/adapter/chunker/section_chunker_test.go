package chunker

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"tenk/config"
	"tenk/internal/domain"
)

func testChunker() *SectionChunker {
	return NewSectionChunker(config.ChunkingConfig{
		ChunkWords:    50,
		OverlapWords:  10,
		MinChunkWords: 5,
	})
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "word"
	}
	return strings.Join(parts, " ")
}

func TestChunkTextSectionWindows(t *testing.T) {
	c := testChunker()

	sections := []domain.Section{
		{Name: "Document Section 1", Content: words(120), Page: 1, Type: domain.TypeText},
	}

	chunks, err := c.Chunk(sections)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 overlapping chunks, got %d", len(chunks))
	}

	for i, ch := range chunks {
		if ch.ID != i {
			t.Errorf("chunk %d: expected id %d, got %d", i, i, ch.ID)
		}
		if ch.Section != "Document Section 1" {
			t.Errorf("chunk %d: wrong section %q", i, ch.Section)
		}
		if ch.Page != 1 {
			t.Errorf("chunk %d: wrong page %d", i, ch.Page)
		}
		n := len(strings.Fields(ch.Text))
		if n < 5 || n > 50 {
			t.Errorf("chunk %d: word count %d outside bounds", i, n)
		}
	}
}

func TestChunkTableSectionIsNeverSplit(t *testing.T) {
	c := testChunker()

	sections := []domain.Section{
		{Name: "Financial Statements", Content: words(300), Type: domain.TypeTable},
	}

	chunks, err := c.Chunk(sections)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("table must be exactly one chunk, got %d", len(chunks))
	}
	if chunks[0].Type != domain.TypeTable {
		t.Errorf("expected table chunk, got %s", chunks[0].Type)
	}
}

func TestChunkSkipsShortWindows(t *testing.T) {
	c := NewSectionChunker(config.ChunkingConfig{
		ChunkWords:    50,
		OverlapWords:  10,
		MinChunkWords: 50,
	})

	// 60 words: the second window has only 20 words and must be dropped.
	sections := []domain.Section{
		{Name: "S", Content: words(60), Page: 1, Type: domain.TypeText},
	}

	chunks, err := c.Chunk(sections)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk after noise filtering, got %d", len(chunks))
	}
}

func TestChunkDeterministicIDs(t *testing.T) {
	c := testChunker()

	sections := []domain.Section{
		{Name: "A", Content: words(120), Page: 1, Type: domain.TypeText},
		{Name: "B", Content: words(80), Page: 2, Type: domain.TypeText},
	}

	first, err := c.Chunk(sections)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Chunk(sections)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("chunking identical input must be deterministic")
	}

	for i := 1; i < len(first); i++ {
		if first[i].ID != first[i-1].ID+1 {
			t.Errorf("chunk ids not contiguous at %d", i)
		}
	}
	if len(first) > 0 && first[0].ID != 0 {
		t.Errorf("chunk ids must start at 0, got %d", first[0].ID)
	}
}

func TestChunkEmptyInput(t *testing.T) {
	c := testChunker()

	_, err := c.Chunk(nil)
	if !errors.Is(err, ErrNoChunks) {
		t.Errorf("expected ErrNoChunks, got %v", err)
	}
}

func TestDetectCrossRefs(t *testing.T) {
	content := "Revenue grew significantly. See Note 5 for details, and refer to Item 1A for risks. Deferred taxes are covered in Section 12."

	refs := detectCrossRefs(content)
	if len(refs) != 3 {
		t.Fatalf("expected 3 cross-references, got %d: %+v", len(refs), refs)
	}

	if refs[0].Target != "5" || !strings.EqualFold(refs[0].Kind, "note") {
		t.Errorf("unexpected first ref: %+v", refs[0])
	}
	if refs[1].Target != "1A" {
		t.Errorf("expected target 1A, got %q", refs[1].Target)
	}
	if refs[2].Matched != "Section 12" {
		t.Errorf("expected matched text 'Section 12', got %q", refs[2].Matched)
	}
}

func TestCrossRefsTaggedPerChunk(t *testing.T) {
	c := NewSectionChunker(config.ChunkingConfig{
		ChunkWords:    10,
		OverlapWords:  0,
		MinChunkWords: 2,
	})

	content := words(10) + " See Note 5 today. " + words(10)
	sections := []domain.Section{
		{Name: "S", Content: content, Page: 1, Type: domain.TypeText},
	}

	chunks, err := c.Chunk(sections)
	if err != nil {
		t.Fatal(err)
	}

	for _, ch := range chunks {
		hasText := strings.Contains(ch.Text, "See Note 5")
		hasRef := len(ch.CrossRefs) > 0
		if hasText != hasRef {
			t.Errorf("chunk %d: ref tagging mismatch (text match %v, refs %v)", ch.ID, hasText, ch.CrossRefs)
		}
	}
}
