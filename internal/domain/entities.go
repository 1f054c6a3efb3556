package domain

// Section and chunk content types.
const (
	TypeText  = "text"
	TypeTable = "table"
)

// Citation source types.
const (
	SourceDocument = "document"
	SourceWeb      = "web"
)

// Section is a named, ordered span of the filing produced by the parser.
// Page is the section's position in document order; 0 means unknown
// (extracted tables carry no page).
type Section struct {
	Name    string
	Content string
	Page    int
	Type    string
}

// CrossReference is a detected in-document reference such as "See Note 5".
type CrossReference struct {
	Kind    string `json:"kind"`
	Target  string `json:"target"`
	Matched string `json:"matched"`
}

// Chunk is a retrieval unit derived from exactly one section. IDs are
// assigned sequentially across the whole document and are stable for
// identical input.
type Chunk struct {
	ID        int
	Text      string
	Section   string
	Page      int
	Type      string
	CrossRefs []CrossReference
}

// RetrievedChunk is a chunk as it comes back from the vector store for one
// query. Ordinal is the chunk's position in the retrieval result and is the
// tag the synthesizer uses for citations ("[Chunk 2]"). Page is a string
// here because the store keeps it as one ("unknown" when absent).
type RetrievedChunk struct {
	Ordinal   int
	Text      string
	Section   string
	Page      string
	Type      string
	CrossRefs []CrossReference
	Score     float64
}

// Citation points an answer back at the material that grounded it.
type Citation struct {
	SourceType string           `json:"source_type"`
	Text       string           `json:"text"`
	Section    string           `json:"section,omitempty"`
	Page       string           `json:"page,omitempty"`
	CrossRefs  []CrossReference `json:"cross_references,omitempty"`
	Title      string           `json:"title,omitempty"`
	URL        string           `json:"url,omitempty"`
}

// ToolResult is the output of the document QA tool for one query.
type ToolResult struct {
	Answer    string
	Citations []Citation
}

// SearchResult is the output of the web search tool: a short summary built
// from the top snippets plus one citation per returned result.
type SearchResult struct {
	Answer  string
	Sources []Citation
}

// Response is the final structured answer for one query. It is constructed
// fresh per query and never mutated after return. Errors holds non-fatal
// per-tool failures.
type Response struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
	ToolsUsed []string   `json:"tools_used"`
	Errors    []string   `json:"errors,omitempty"`
	Plan      string     `json:"plan"`
}
