package parser

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"tenk/config"
	"tenk/internal/domain"
)

// Ingestion failures. All are fatal: the caller aborts initialization
// rather than indexing a partial or garbage document.
var (
	ErrEmptyDocument       = errors.New("document contains insufficient text")
	ErrInsufficientContent = errors.New("document contains too few words")
	ErrNoSections          = errors.New("failed to create any sections from document")
)

// HTMLParser segments a 10-K HTML filing into ordered sections. The primary
// strategy flattens all visible text and cuts it into fixed-size word
// windows; a secondary pass extracts tables as their own sections.
type HTMLParser struct {
	sectionWords     int
	minSectionChars  int
	minDocumentChars int
	minDocumentWords int
	maxTables        int
	minTableChars    int
	log              *zap.Logger
}

func NewHTMLParser(cfg config.ChunkingConfig, log *zap.Logger) *HTMLParser {
	return &HTMLParser{
		sectionWords:     cfg.SectionWords,
		minSectionChars:  cfg.MinSectionChars,
		minDocumentChars: cfg.MinDocumentChars,
		minDocumentWords: cfg.MinDocumentWords,
		maxTables:        cfg.MaxTables,
		minTableChars:    cfg.MinTableChars,
		log:              log,
	}
}

// Parse converts raw filing markup into sections covering the full document.
func (p *HTMLParser) Parse(raw string) ([]domain.Section, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	text := extractText(doc)
	p.log.Info("extracted document text", zap.Int("chars", len(text)))

	if len(text) < p.minDocumentChars {
		return nil, ErrEmptyDocument
	}

	words := strings.Fields(text)
	p.log.Info("counted document words", zap.Int("words", len(words)))
	if len(words) < p.minDocumentWords {
		return nil, ErrInsufficientContent
	}

	sections := p.windowSections(words)
	sections = append(sections, p.extractTables(doc)...)

	if len(sections) == 0 {
		return nil, ErrNoSections
	}

	p.log.Info("segmented document", zap.Int("sections", len(sections)))
	return sections, nil
}

// windowSections cuts the flattened word stream into fixed-size sections
// with monotonically increasing page numbers. Windows whose rendered text
// falls below the minimum length are dropped as noise.
func (p *HTMLParser) windowSections(words []string) []domain.Section {
	var sections []domain.Section
	page := 1

	for i := 0; i < len(words); i += p.sectionWords {
		end := i + p.sectionWords
		if end > len(words) {
			end = len(words)
		}
		content := strings.Join(words[i:end], " ")
		if len(content) <= p.minSectionChars {
			continue
		}
		sections = append(sections, domain.Section{
			Name:    fmt.Sprintf("Document Section %d", page),
			Content: content,
			Page:    page,
			Type:    domain.TypeText,
		})
		page++
	}

	return sections
}

// extractTables renders each <table> element as a flattened text block and
// classifies it into a financial-statement bucket by inspecting the nearest
// preceding heading or paragraph text.
func (p *HTMLParser) extractTables(doc *html.Node) []domain.Section {
	var tables []domain.Section
	var lastContext string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			case "h1", "h2", "h3", "h4", "p":
				lastContext = textContent(n)
			case "table":
				if len(tables) >= p.maxTables {
					return
				}
				text := renderTable(n)
				if len(text) >= p.minTableChars {
					tables = append(tables, domain.Section{
						Name:    classifyTable(lastContext),
						Content: text,
						Type:    domain.TypeTable,
					})
				}
				return // nested tables are already part of the rendered text
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	p.log.Info("extracted tables", zap.Int("tables", len(tables)))
	return tables
}

// classifyTable buckets a table by the heading text that precedes it.
func classifyTable(context string) string {
	if len(context) > 100 {
		context = context[:100]
	}
	lower := strings.ToLower(context)
	switch {
	case strings.Contains(lower, "income"):
		return "Financial Statements - Income Statement"
	case strings.Contains(lower, "balance"):
		return "Financial Statements - Balance Sheet"
	case strings.Contains(lower, "cash flow"):
		return "Financial Statements - Cash Flow"
	default:
		return "Financial Statements"
	}
}

// renderTable flattens a table element into rows of tab-separated cells.
func renderTable(table *html.Node) string {
	var rows []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, textContent(c))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, strings.Join(cells, "\t"))
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)

	return strings.Join(rows, "\n")
}

// extractText flattens all visible text in the document, skipping
// non-content elements.
func extractText(doc *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			t := strings.TrimSpace(n.Data)
			if t != "" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
				buf.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return buf.String()
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}
