package port

import "tenk/internal/domain"

// WebSearcher issues a query to an external search API. Implementations
// degrade provider failures (rate limit, timeout, transport errors) to a
// SearchResult with an explanatory answer and no sources rather than
// returning an error; a non-nil error means the tool itself is unusable.
type WebSearcher interface {
	Search(query string, maxResults int) (domain.SearchResult, error)
}
