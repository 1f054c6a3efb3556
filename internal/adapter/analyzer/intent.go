package analyzer

import (
	"strings"
	"unicode"
)

// Intent tags what a query needs. Both the tool router and the plan
// generator consume the same classification, so the two can never diverge.
type Intent struct {
	NeedsCurrent  bool
	NeedsDocument bool
}

// IntentClassifier classifies queries from keyword sets alone: no side
// effects, no model calls. Single-word keywords match whole query tokens;
// multi-word keywords match as phrases.
type IntentClassifier struct {
	currentKeywords  []string
	documentKeywords []string
}

// NewIntentClassifier returns a classifier with the default keyword sets.
// The current set flags queries needing live or comparative data; the
// document set flags queries about the filing itself.
func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{
		currentKeywords: []string{
			"current", "today", "now", "latest stock", "market cap",
			"compare to", "compare", "versus", "vs", "microsoft", "google",
			"competitor", "industry average", "recent news",
		},
		documentKeywords: []string{
			"risk", "risk factor", "10-k", "r&d", "margin", "filing",
			"annual report", "management discussion", "md&a",
			"financial statement", "balance sheet", "income statement",
		},
	}
}

// Classify is a pure function of the query text.
func (c *IntentClassifier) Classify(query string) Intent {
	lower := strings.ToLower(query)
	tokens := tokenSet(lower)

	return Intent{
		NeedsCurrent:  anyMatch(c.currentKeywords, lower, tokens),
		NeedsDocument: anyMatch(c.documentKeywords, lower, tokens),
	}
}

func anyMatch(keywords []string, lowerQuery string, tokens map[string]bool) bool {
	for _, kw := range keywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(lowerQuery, kw) {
				return true
			}
			continue
		}
		if tokens[kw] {
			return true
		}
	}
	return false
}

// tokenSet splits a lowercased query into words, trimming edge punctuation
// but keeping internal hyphens and ampersands so tokens like "10-k" and
// "r&d" survive. A possessive suffix is dropped so "microsoft's" matches
// "microsoft".
func tokenSet(lowerQuery string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(lowerQuery) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return unicode.IsPunct(r) && r != '-' && r != '&'
		})
		word = strings.TrimSuffix(word, "'s")
		word = strings.TrimSuffix(word, "’s")
		if word != "" {
			tokens[word] = true
		}
	}
	return tokens
}
