package analyzer

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	c := NewIntentClassifier()

	cases := []struct {
		query string
		want  Intent
	}{
		{
			"What are the top risk factors and R&D spend percentage?",
			Intent{NeedsCurrent: false, NeedsDocument: true},
		},
		{
			"How does gross margin compare to Microsoft's current margin?",
			Intent{NeedsCurrent: true, NeedsDocument: true},
		},
		{
			"What is the current market cap?",
			Intent{NeedsCurrent: true, NeedsDocument: false},
		},
		{
			"Summarize the MD&A section",
			Intent{NeedsCurrent: false, NeedsDocument: true},
		},
		{
			"Tell me about the company",
			Intent{NeedsCurrent: false, NeedsDocument: false},
		},
		{
			"revenue vs competitors in the 10-K",
			Intent{NeedsCurrent: true, NeedsDocument: true},
		},
	}

	for _, tc := range cases {
		if got := c.Classify(tc.query); got != tc.want {
			t.Errorf("Classify(%q) = %+v, want %+v", tc.query, got, tc.want)
		}
	}
}

func TestClassifyIsPure(t *testing.T) {
	c := NewIntentClassifier()
	q := "How does gross margin compare to Microsoft's current margin?"

	first := c.Classify(q)
	second := c.Classify(q)
	if first != second {
		t.Errorf("classification not deterministic: %+v vs %+v", first, second)
	}
}

func TestClassifyDoesNotMatchSubstringsInsideWords(t *testing.T) {
	c := NewIntentClassifier()

	// "know" contains "now" and "snowstorm" contains "now"; neither should
	// flag the query as needing current data.
	got := c.Classify("Do we know about snowstorm disclosures in the filing?")
	want := Intent{NeedsCurrent: false, NeedsDocument: true}
	if got != want {
		t.Errorf("substring leak: got %+v, want %+v", got, want)
	}
}

func TestTokenSet(t *testing.T) {
	tokens := tokenSet("microsoft's margin, 10-k r&d.")
	want := map[string]bool{
		"microsoft": true,
		"margin":    true,
		"10-k":      true,
		"r&d":       true,
	}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("tokenSet = %v, want %v", tokens, want)
	}
}
