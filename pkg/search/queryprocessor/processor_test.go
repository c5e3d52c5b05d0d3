package queryprocessor

import (
	"reflect"
	"testing"
)

func TestProcess(t *testing.T) {
	p := NewProcessor(DefaultCatalog())

	tests := []struct {
		name               string
		query              string
		wantCleaned        string
		wantKeyTerms       []string
		wantConversational bool
		wantThreshold      float64
	}{
		{
			name:               "conversational deck request",
			query:              "give me decks about healthcare",
			wantCleaned:        "healthcare",
			wantKeyTerms:       []string{"healthcare"},
			wantConversational: true,
			wantThreshold:      0.25,
		},
		{
			name:               "plain topic query",
			query:              "cloud kitchen business plan",
			wantCleaned:        "cloud kitchen business plan",
			wantKeyTerms:       []string{"cloud kitchen", "business plan"},
			wantConversational: false,
			wantThreshold:      0.25,
		},
		{
			name:               "trailing preposition is dropped",
			query:              "show me documents about",
			wantCleaned:        "documents",
			wantKeyTerms:       []string{},
			wantConversational: true,
			wantThreshold:      0.25,
		},
		{
			name:               "topic after for stays in place without prefix",
			query:              "quarterly report for the textile industry",
			wantCleaned:        "quarterly report for the textile industry",
			wantKeyTerms:       []string{"quarterly report", "textile industry"},
			wantConversational: false,
			wantThreshold:      0.25,
		},
		{
			name:               "medium query hits medium tier",
			query:              "solar panel installation cost comparison spreadsheet",
			wantCleaned:        "solar panel installation cost comparison spreadsheet",
			wantKeyTerms:       []string{"solar", "panel", "installation", "cost", "comparison"},
			wantConversational: false,
			wantThreshold:      0.45,
		},
		{
			name:               "single character query",
			query:              "a",
			wantCleaned:        "a",
			wantKeyTerms:       []string{},
			wantConversational: false,
			wantThreshold:      0.25,
		},
		{
			name:               "empty query degrades gracefully",
			query:              "   ",
			wantCleaned:        "   ",
			wantKeyTerms:       []string{},
			wantConversational: false,
			wantThreshold:      0.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Process(tt.query)

			if got.OriginalQuery != tt.query {
				t.Errorf("OriginalQuery = %q, want %q", got.OriginalQuery, tt.query)
			}
			if got.CleanedQuery != tt.wantCleaned {
				t.Errorf("CleanedQuery = %q, want %q", got.CleanedQuery, tt.wantCleaned)
			}
			if !reflect.DeepEqual(got.KeyTerms, tt.wantKeyTerms) {
				t.Errorf("KeyTerms = %v, want %v", got.KeyTerms, tt.wantKeyTerms)
			}
			if got.ConversationalIntent != tt.wantConversational {
				t.Errorf("ConversationalIntent = %v, want %v", got.ConversationalIntent, tt.wantConversational)
			}
			if got.Threshold != tt.wantThreshold {
				t.Errorf("Threshold = %v, want %v", got.Threshold, tt.wantThreshold)
			}
		})
	}
}

func TestProcessDocumentTypes(t *testing.T) {
	p := NewProcessor(DefaultCatalog())

	got := p.Process("give me decks about healthcare")
	if len(got.DocumentTypes) != 1 {
		t.Fatalf("DocumentTypes = %v, want exactly one hint", got.DocumentTypes)
	}
	if got.DocumentTypes[0].Type != "presentation" {
		t.Errorf("DocumentTypes[0].Type = %q, want %q", got.DocumentTypes[0].Type, "presentation")
	}

	got = p.Process("healthcare trends")
	if len(got.DocumentTypes) != 0 {
		t.Errorf("DocumentTypes = %v, want none", got.DocumentTypes)
	}
}

func TestProcessEnhancedQuery(t *testing.T) {
	p := NewProcessor(DefaultCatalog())

	got := p.Process("give me decks about healthcare")

	// The enhanced query carries the detected type and domain boosters.
	for _, want := range []string{"healthcare", "presentation", "medical"} {
		if !containsWord(got.EnhancedQuery, want) {
			t.Errorf("EnhancedQuery = %q, missing %q", got.EnhancedQuery, want)
		}
	}
}

// Processing an already-cleaned query must not change its key terms.
func TestProcessIdempotent(t *testing.T) {
	p := NewProcessor(DefaultCatalog())

	first := p.Process("can you find me the annual report for renewable energy")
	second := p.Process(first.CleanedQuery)

	if !reflect.DeepEqual(first.KeyTerms, second.KeyTerms) {
		t.Errorf("KeyTerms changed on reprocess: %v vs %v", first.KeyTerms, second.KeyTerms)
	}
}

func TestDynamicThreshold(t *testing.T) {
	p := NewProcessor(DefaultCatalog())

	tests := []struct {
		terms int
		want  float64
	}{
		{0, 0.25},
		{2, 0.25},
		{3, 0.45},
		{5, 0.45},
		{6, 0.60},
		{9, 0.60},
		{10, 0.70},
	}
	for _, tt := range tests {
		terms := make([]string, tt.terms)
		for i := range terms {
			terms[i] = "term"
		}
		if got := p.DynamicThreshold(terms); got != tt.want {
			t.Errorf("DynamicThreshold(%d terms) = %v, want %v", tt.terms, got, tt.want)
		}
	}
}

func containsWord(s, w string) bool {
	for _, tok := range tokenize(s) {
		if tok == w {
			return true
		}
	}
	return false
}
