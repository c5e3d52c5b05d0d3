package scoring

import (
	"testing"
	"time"

	"document-search-be/pkg/search/cascade"

	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func testScorer() *Scorer {
	return NewScorerAt(DefaultWeights(), func() time.Time { return fixedNow })
}

func TestScoreBlendsComponents(t *testing.T) {
	s := testScorer()

	c := cascade.Candidate{
		Content:    "The textile industry in Bandung grew rapidly last year.",
		Similarity: 0.82,
		Document: cascade.DocumentAttributes{
			Filename:  "Textile Industry.pptx",
			CreatedAt: fixedNow.AddDate(0, -6, 0),
		},
	}

	res := s.Score(c, "textile industry", []string{"textile industry"})

	assert.Equal(t, 0.82, res.Components.Semantic)
	assert.Equal(t, 0.8, res.Components.Content, "exact phrase beats coverage")
	assert.Equal(t, 1.0, res.Components.Filename)
	assert.InDelta(t, 0.8, res.Components.Recency, 0.01, "half-year-old doc")

	want := 0.65*0.82 + 0.15*0.8 + 0.15*1.0 + 0.05*res.Components.Recency
	assert.InDelta(t, want, res.CompositeScore, 1e-9)
	assert.Equal(t, res.CompositeScore, res.FinalScore, "final mirrors composite before rerank")
	assert.True(t, res.ExactFilenameMatch)
}

func TestScoreContentRelevance(t *testing.T) {
	s := testScorer()

	t.Run("coverage without phrase", func(t *testing.T) {
		filler := "The study enrolled three hundred participants across four regional hospitals " +
			"over a period of twenty four months, with follow up visits scheduled quarterly " +
			"and adherence tracked through electronic records maintained by each site. " +
			"Preliminary findings were reviewed by an independent board before publication. "
		c := cascade.Candidate{Content: filler + "Patients received clinical treatment."}
		res := s.Score(c, "clinical patient outcomes", []string{"clinical", "patient", "outcomes"})
		// 2 of 3 terms matched, no exact phrase, density negligible.
		assert.InDelta(t, 0.7*2.0/3.0, res.Components.Content, 1e-9)
	})

	t.Run("empty content scores zero", func(t *testing.T) {
		c := cascade.Candidate{Content: ""}
		res := s.Score(c, "anything", []string{"anything"})
		assert.Equal(t, 0.0, res.Components.Content)
	})
}

func TestScoreFilenameRelevance(t *testing.T) {
	s := testScorer()

	tests := []struct {
		name     string
		filename string
		terms    []string
		want     float64
	}{
		{"all terms", "Healthcare Strategy 2025.pdf", []string{"healthcare", "strategy"}, 1.0},
		{"half the terms", "Healthcare Overview.pdf", []string{"healthcare", "budget"}, 0.8 * 0.5},
		{"case insensitive", "HEALTHCARE.pdf", []string{"healthcare"}, 1.0},
		{"no terms matched", "Notes.txt", []string{"healthcare"}, 0.0},
		{"missing filename", "", []string{"healthcare"}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cascade.Candidate{Document: cascade.DocumentAttributes{Filename: tt.filename}}
			res := s.Score(c, "", tt.terms)
			assert.InDelta(t, tt.want, res.Components.Filename, 1e-9)
		})
	}
}

func TestScoreRecencyTiers(t *testing.T) {
	s := testScorer()

	tests := []struct {
		name      string
		createdAt time.Time
		want      float64
		delta     float64
	}{
		{"brand new", fixedNow, 1.0, 0.01},
		{"six months old", fixedNow.AddDate(0, -6, 0), 0.8, 0.01},
		{"one year old", fixedNow.AddDate(-1, 0, 0), 0.6, 0.01},
		{"eighteen months old", fixedNow.AddDate(-1, -6, 0), 0.4, 0},
		{"three years old", fixedNow.AddDate(-3, 0, 0), 0.3, 0},
		{"missing timestamp", time.Time{}, 0.5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cascade.Candidate{Document: cascade.DocumentAttributes{CreatedAt: tt.createdAt}}
			res := s.Score(c, "", nil)
			assert.InDelta(t, tt.want, res.Components.Recency, tt.delta)
		})
	}
}

func TestScoreClampsOutOfRangeSimilarity(t *testing.T) {
	s := testScorer()

	res := s.Score(cascade.Candidate{Similarity: 1.7}, "", nil)
	assert.Equal(t, 1.0, res.Components.Semantic)

	res = s.Score(cascade.Candidate{Similarity: -0.3}, "", nil)
	assert.Equal(t, 0.0, res.Components.Semantic)
}
