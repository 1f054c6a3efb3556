package parser

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"tenk/config"
	"tenk/internal/domain"
)

func testParser(t *testing.T) *HTMLParser {
	t.Helper()
	cfg := config.ChunkingConfig{
		SectionWords:     50,
		MinSectionChars:  20,
		MinDocumentChars: 100,
		MinDocumentWords: 10,
		MaxTables:        20,
		MinTableChars:    10,
	}
	return NewHTMLParser(cfg, zap.NewNop())
}

func repeatWords(word string, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = word
	}
	return strings.Join(words, " ")
}

func TestParseProducesOrderedSections(t *testing.T) {
	p := testParser(t)

	body := repeatWords("revenue", 120)
	raw := "<html><head><script>ignored()</script><style>.x{}</style></head><body><p>" + body + "</p></body></html>"

	sections, err := p.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(sections) < 2 {
		t.Fatalf("expected multiple sections, got %d", len(sections))
	}

	for i, s := range sections {
		if s.Type != domain.TypeText {
			t.Errorf("section %d: expected text type, got %s", i, s.Type)
		}
		if s.Page != i+1 {
			t.Errorf("section %d: expected page %d, got %d", i, i+1, s.Page)
		}
		if s.Name == "" {
			t.Errorf("section %d has empty name", i)
		}
	}
}

func TestParseStripsScriptAndStyle(t *testing.T) {
	p := testParser(t)

	raw := "<html><body><script>var secret = 'donotindex';</script><p>" +
		repeatWords("filing", 60) + "</p></body></html>"

	sections, err := p.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range sections {
		if strings.Contains(s.Content, "donotindex") {
			t.Error("script content leaked into section text")
		}
	}
}

func TestParseEmptyDocument(t *testing.T) {
	p := testParser(t)

	_, err := p.Parse("<html><body><p>short</p></body></html>")
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestParseTooFewWords(t *testing.T) {
	p := testParser(t)

	// Long enough in characters but fewer words than the minimum.
	raw := "<html><body><p>" + strings.Repeat("superlongsingleword", 10) + "</p></body></html>"
	_, err := p.Parse(raw)
	if !errors.Is(err, ErrInsufficientContent) {
		t.Errorf("expected ErrInsufficientContent, got %v", err)
	}
}

func TestParseExtractsTables(t *testing.T) {
	p := testParser(t)

	raw := "<html><body><p>" + repeatWords("overview", 60) + "</p>" +
		"<h2>Consolidated Income Statement</h2>" +
		"<table><tr><th>Year</th><th>Revenue</th></tr><tr><td>2023</td><td>383285</td></tr></table>" +
		"</body></html>"

	sections, err := p.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}

	var table *domain.Section
	for i := range sections {
		if sections[i].Type == domain.TypeTable {
			table = &sections[i]
			break
		}
	}
	if table == nil {
		t.Fatal("expected a table section")
	}
	if table.Name != "Financial Statements - Income Statement" {
		t.Errorf("expected income statement bucket, got %q", table.Name)
	}
	if !strings.Contains(table.Content, "383285") {
		t.Errorf("table content missing cell data: %q", table.Content)
	}
	if table.Page != 0 {
		t.Errorf("tables carry no page, got %d", table.Page)
	}
}

func TestParseSkipsTinyTables(t *testing.T) {
	p := testParser(t)

	raw := "<html><body><p>" + repeatWords("overview", 60) + "</p>" +
		"<table><tr><td>x</td></tr></table></body></html>"

	sections, err := p.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range sections {
		if s.Type == domain.TypeTable {
			t.Error("tiny table should have been skipped as noise")
		}
	}
}

func TestClassifyTable(t *testing.T) {
	cases := []struct {
		context string
		want    string
	}{
		{"Consolidated Statements of Income", "Financial Statements - Income Statement"},
		{"Condensed Balance Sheets", "Financial Statements - Balance Sheet"},
		{"Statements of Cash Flows... cash flow", "Financial Statements - Cash Flow"},
		{"Selected Quarterly Data", "Financial Statements"},
		{"", "Financial Statements"},
	}

	for _, tc := range cases {
		if got := classifyTable(tc.context); got != tc.want {
			t.Errorf("classifyTable(%q) = %q, want %q", tc.context, got, tc.want)
		}
	}
}
