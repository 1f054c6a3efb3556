package store

import (
	"path/filepath"
	"testing"

	"tenk/internal/port"
)

func openTestStore(t *testing.T, dim int) *BoltVectorStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.db")
	s, err := NewBoltVectorStore(path, "test_filing", dim)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertAndSearch(t *testing.T) {
	s := openTestStore(t, 3)

	items := []port.VectorItem{
		{ID: "chunk_0", Vector: []float32{1, 0, 0}, Text: "alpha", Metadata: map[string]string{"section": "A", "page": "1"}},
		{ID: "chunk_1", Vector: []float32{0, 1, 0}, Text: "beta", Metadata: map[string]string{"section": "B", "page": "2"}},
		{ID: "chunk_2", Vector: []float32{0.9, 0.1, 0}, Text: "gamma", Metadata: map[string]string{"section": "C", "page": "unknown"}},
	}
	if err := s.Upsert(items); err != nil {
		t.Fatal(err)
	}

	results, err := s.Search([]float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "chunk_0" {
		t.Errorf("expected chunk_0 first, got %s", results[0].ID)
	}
	if results[0].Text != "alpha" {
		t.Errorf("expected stored text, got %q", results[0].Text)
	}
	if results[1].ID != "chunk_2" {
		t.Errorf("expected chunk_2 second, got %s", results[1].ID)
	}
	if results[0].Score < results[1].Score {
		t.Error("results not ranked best-first")
	}
	if results[0].Metadata["section"] != "A" {
		t.Errorf("metadata lost: %v", results[0].Metadata)
	}
}

func TestSearchNeverExceedsK(t *testing.T) {
	s := openTestStore(t, 2)

	if err := s.Upsert([]port.VectorItem{
		{ID: "chunk_0", Vector: []float32{1, 0}},
		{ID: "chunk_1", Vector: []float32{0, 1}},
	}); err != nil {
		t.Fatal(err)
	}

	results, err := s.Search([]float32{1, 1}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) > 10 {
		t.Fatalf("returned more than k results: %d", len(results))
	}
	if len(results) != 2 {
		t.Fatalf("expected all 2 entries, got %d", len(results))
	}
}

func TestSearchEmptyStore(t *testing.T) {
	s := openTestStore(t, 2)

	results, err := s.Search([]float32{1, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results from empty store, got %d", len(results))
	}
}

func TestDimensionMismatch(t *testing.T) {
	s := openTestStore(t, 3)

	if err := s.Upsert([]port.VectorItem{{ID: "chunk_0", Vector: []float32{1, 0}}}); err == nil {
		t.Error("expected dimension mismatch error on upsert")
	}
	if _, err := s.Search([]float32{1, 0}, 1); err == nil {
		t.Error("expected dimension mismatch error on search")
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	s, err := NewBoltVectorStore(path, "test_filing", 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert([]port.VectorItem{
		{ID: "chunk_0", Vector: []float32{1, 0}, Text: "persisted", Metadata: map[string]string{"type": "text"}},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewBoltVectorStore(path, "test_filing", 2)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	count, err := reopened.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 entry after reopen, got %d", count)
	}

	results, err := reopened.Search([]float32{1, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Text != "persisted" {
		t.Fatalf("unexpected results after reopen: %+v", results)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); got < 0.999 {
		t.Errorf("identical vectors: expected ~1, got %f", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors: expected 0, got %f", got)
	}
	if got := cosineSimilarity([]float32{0, 0}, []float32{1, 0}); got != 0 {
		t.Errorf("zero vector: expected 0, got %f", got)
	}
}
