package websearch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"tenk/config"
	"tenk/internal/domain"
)

// Degraded-result messages. Each failure mode gets its own wording but the
// same shape: an empty source list the orchestrator can still synthesize
// around.
const (
	msgRateLimit = "Rate limit exceeded for web search. Please try again later."
	msgTimeout   = "Web search timed out. Please try again."
	msgNoResults = "No results found."
)

const (
	maxExcerptChars = 200
	maxSummaryChars = 300
	summaryResults  = 3
)

// TavilyClient wraps the Tavily search API. Provider failures never reach
// the caller as errors; they degrade to an empty result with a
// user-facing message.
type TavilyClient struct {
	apiKey     string
	baseURL    string
	depth      string
	httpClient *http.Client
	log        *zap.Logger
}

// NewTavilyClient builds a client from config. The API key is read from the
// configured environment variable and its absence is fatal.
func NewTavilyClient(cfg config.SearchConfig, log *zap.Logger) (*TavilyClient, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", cfg.APIKeyEnv)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.tavily.com/search"
	}

	depth := cfg.Depth
	if depth == "" {
		depth = "basic"
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &TavilyClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		depth:   depth,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}, nil
}

type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type searchResponse struct {
	Results []struct {
		Content string `json:"content"`
		URL     string `json:"url"`
		Title   string `json:"title"`
	} `json:"results"`
}

// Search issues a query and returns a summary plus one citation per result.
func (c *TavilyClient) Search(query string, maxResults int) (domain.SearchResult, error) {
	c.log.Info("searching web", zap.String("query", query))

	body, err := json.Marshal(searchRequest{
		APIKey:      c.apiKey,
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: c.depth,
	})
	if err != nil {
		return degraded(fmt.Sprintf("Web search error: %v", err)), nil
	}

	resp, err := c.httpClient.Post(c.baseURL, "application/json", bytes.NewReader(body))
	if err != nil {
		if isTimeout(err) {
			c.log.Warn("web search timed out")
			return degraded(msgTimeout), nil
		}
		c.log.Warn("web search failed", zap.Error(err))
		return degraded(fmt.Sprintf("Web search error: %v", err)), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.log.Warn("web search rate limit exceeded")
		return degraded(msgRateLimit), nil
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("web search returned error status", zap.Int("status", resp.StatusCode))
		return degraded(fmt.Sprintf("Web search error: status %d", resp.StatusCode)), nil
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return degraded(fmt.Sprintf("Web search error: %v", err)), nil
	}

	var apiResp searchResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return degraded(fmt.Sprintf("Web search error: %v", err)), nil
	}

	result := formatResults(apiResp)
	c.log.Info("web search complete", zap.Int("results", len(result.Sources)))
	return result, nil
}

// formatResults builds the summary answer and per-result citations.
func formatResults(resp searchResponse) domain.SearchResult {
	var sources []domain.Citation
	var summaryParts []string

	for i, r := range resp.Results {
		sources = append(sources, domain.Citation{
			SourceType: domain.SourceWeb,
			Text:       truncate(r.Content, maxExcerptChars),
			URL:        r.URL,
			Title:      r.Title,
		})
		if i < summaryResults && r.Content != "" {
			summaryParts = append(summaryParts,
				fmt.Sprintf("[Source %d]: %s", i+1, truncate(r.Content, maxSummaryChars)))
		}
	}

	answer := msgNoResults
	if len(summaryParts) > 0 {
		answer = strings.Join(summaryParts, "\n\n")
	}

	return domain.SearchResult{Answer: answer, Sources: sources}
}

func degraded(message string) domain.SearchResult {
	return domain.SearchResult{Answer: message}
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return os.IsTimeout(err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
