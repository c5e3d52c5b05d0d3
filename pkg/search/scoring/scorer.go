package scoring

import (
	"math"
	"strings"
	"time"

	"document-search-be/pkg/search/cascade"
)

// Weights blends the four relevance signals. They must sum to 1.0.
type Weights struct {
	Semantic float64
	Content  float64
	Filename float64
	Recency  float64
}

// DefaultWeights returns the reference weighting.
func DefaultWeights() Weights {
	return Weights{Semantic: 0.65, Content: 0.15, Filename: 0.15, Recency: 0.05}
}

// ComponentScores are the individual signals before blending.
type ComponentScores struct {
	Semantic float64 `json:"semantic"`
	Content  float64 `json:"content"`
	Filename float64 `json:"filename"`
	Recency  float64 `json:"recency"`
}

// ScoredResult is one candidate document augmented with scores. The
// reranker fills RerankScore/FinalScore; until then FinalScore mirrors
// the composite.
type ScoredResult struct {
	Candidate          cascade.Candidate
	Components         ComponentScores
	CompositeScore     float64
	RerankScore        float64
	FinalScore         float64
	ExactFilenameMatch bool
	Snippet            string
}

// Scorer computes composite relevance scores. Pure over its inputs.
type Scorer struct {
	weights Weights
	now     func() time.Time
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights, now: time.Now}
}

// NewScorerAt pins the clock, for deterministic recency in tests.
func NewScorerAt(weights Weights, now func() time.Time) *Scorer {
	return &Scorer{weights: weights, now: now}
}

// Score computes component and composite scores for one candidate.
// Missing fields contribute zero (or the neutral recency default); there
// is no error path.
func (s *Scorer) Score(c cascade.Candidate, rawQuery string, keyTerms []string) *ScoredResult {
	components := ComponentScores{
		Semantic: clamp01(c.Similarity),
		Content:  s.contentRelevance(c.Content, rawQuery, keyTerms),
		Filename: s.filenameRelevance(c.Document.Filename, keyTerms),
		Recency:  s.recencyScore(c.Document.CreatedAt),
	}

	composite := clamp01(
		s.weights.Semantic*components.Semantic +
			s.weights.Content*components.Content +
			s.weights.Filename*components.Filename +
			s.weights.Recency*components.Recency,
	)

	return &ScoredResult{
		Candidate:          c,
		Components:         components,
		CompositeScore:     composite,
		FinalScore:         composite,
		ExactFilenameMatch: components.Filename >= 1.0,
	}
}

// contentRelevance is max(exact phrase, 0.7*coverage, 0.5*density).
func (s *Scorer) contentRelevance(content, rawQuery string, keyTerms []string) float64 {
	if content == "" {
		return 0
	}
	lower := strings.ToLower(content)

	var phraseScore float64
	if q := strings.TrimSpace(strings.ToLower(rawQuery)); q != "" && strings.Contains(lower, q) {
		phraseScore = 0.8
	}

	var coverage, density float64
	if len(keyTerms) > 0 {
		matched := 0
		occurrences := 0
		for _, term := range keyTerms {
			n := strings.Count(lower, strings.ToLower(term))
			if n > 0 {
				matched++
				occurrences += n
			}
		}
		coverage = float64(matched) / float64(len(keyTerms))
		// Rewards many occurrences relative to content length, capped at 1.
		density = math.Min(1.0, float64(occurrences)*100/float64(len(lower)))
	}

	return math.Max(phraseScore, math.Max(0.7*coverage, 0.5*density))
}

// filenameRelevance is 1.0 when every key term appears in the filename,
// 0.8*fraction for partial coverage, 0 otherwise.
func (s *Scorer) filenameRelevance(filename string, keyTerms []string) float64 {
	if filename == "" || len(keyTerms) == 0 {
		return 0
	}
	lower := strings.ToLower(filename)
	matched := 0
	for _, term := range keyTerms {
		if strings.Contains(lower, strings.ToLower(term)) {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	if matched == len(keyTerms) {
		return 1.0
	}
	return 0.8 * float64(matched) / float64(len(keyTerms))
}

// recencyScore: under a year old scales 0.6-1.0 (newer = higher), one to
// two years 0.4, older 0.3, missing timestamp neutral 0.5.
func (s *Scorer) recencyScore(createdAt time.Time) float64 {
	if createdAt.IsZero() {
		return 0.5
	}
	age := s.now().Sub(createdAt)
	if age < 0 {
		return 0.5
	}
	year := 365 * 24 * time.Hour
	switch {
	case age <= year:
		return 1.0 - 0.4*(float64(age)/float64(year))
	case age <= 2*year:
		return 0.4
	default:
		return 0.3
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
