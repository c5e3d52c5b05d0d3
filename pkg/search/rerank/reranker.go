package rerank

import (
	"math"
	"sort"
	"strings"

	"document-search-be/internal/pkg/logger"
	"document-search-be/pkg/search/scoring"
)

// Config holds the rerank blend parameters. CompositeWeight and
// RerankWeight should sum to 1.0.
type Config struct {
	CompositeWeight float64
	RerankWeight    float64
	PhraseBoost     float64
	// ProximityWindow is the character distance within which two key terms
	// co-occurring earns a bonus.
	ProximityWindow int
	// MaxNonExactScore caps every non-exact-match result strictly below the
	// 1.0 reserved for exact filename matches.
	MaxNonExactScore float64
}

func DefaultConfig() Config {
	return Config{
		CompositeWeight:  0.6,
		RerankWeight:     0.4,
		PhraseBoost:      1.2,
		ProximityWindow:  50,
		MaxNonExactScore: 0.99,
	}
}

// Reranker recomputes a secondary lexical similarity per result and blends
// it with the composite score. Exact filename matches are pinned to 1.0
// and always sort first.
type Reranker struct {
	cfg    Config
	logger logger.ILogger
}

func New(cfg Config, log logger.ILogger) *Reranker {
	return &Reranker{cfg: cfg, logger: log}
}

// Rerank never drops results: if the rerank computation panics, the
// pre-rerank composite ordering is restored with sanitized scores.
func (r *Reranker) Rerank(rawQuery string, keyTerms []string, results []*scoring.ScoredResult) (out []*scoring.ScoredResult) {
	defer func() {
		if rec := recover(); rec != nil {
			if r.logger != nil {
				r.logger.Error("rerank", "Rerank failed, falling back to composite scores", map[string]interface{}{
					"panic": rec,
				})
			}
			out = r.fallback(results)
		}
	}()

	// Pre-rerank sweep: catch exact matches before text scoring can
	// influence anything.
	for _, res := range results {
		r.applyExactMatchOverride(res, keyTerms)
	}

	for _, res := range results {
		res.RerankScore = r.textSimilarity(res.Candidate.Content, rawQuery, keyTerms)
		blended := r.cfg.CompositeWeight*res.CompositeScore + r.cfg.RerankWeight*res.RerankScore
		res.FinalScore = sanitize(blended)

		// Post-blend sweep: the blend must never displace an exact match.
		r.applyExactMatchOverride(res, keyTerms)

		if !res.ExactFilenameMatch && res.FinalScore > r.cfg.MaxNonExactScore {
			res.FinalScore = r.cfg.MaxNonExactScore
		}
	}

	// Final sweep, then order: exact matches first (composite as
	// tie-break among themselves), the rest by descending final score.
	for _, res := range results {
		r.applyExactMatchOverride(res, keyTerms)
	}
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.ExactFilenameMatch != b.ExactFilenameMatch {
			return a.ExactFilenameMatch
		}
		if a.ExactFilenameMatch {
			return a.CompositeScore > b.CompositeScore
		}
		return a.FinalScore > b.FinalScore
	})
	return results
}

// applyExactMatchOverride pins the score when every key term appears in
// the filename.
func (r *Reranker) applyExactMatchOverride(res *scoring.ScoredResult, keyTerms []string) {
	if len(keyTerms) == 0 {
		return
	}
	filename := strings.ToLower(res.Candidate.Document.Filename)
	if filename == "" {
		return
	}
	for _, term := range keyTerms {
		if !strings.Contains(filename, strings.ToLower(term)) {
			return
		}
	}
	res.ExactFilenameMatch = true
	res.FinalScore = 1.0
}

// textSimilarity is the secondary lexical score: exact phrase containment
// first, then consecutive word-pair overlap, then a key-term match score
// with diminishing-returns frequency and a proximity bonus.
func (r *Reranker) textSimilarity(content, rawQuery string, keyTerms []string) float64 {
	if content == "" {
		return 0
	}
	lower := strings.ToLower(content)
	query := strings.TrimSpace(strings.ToLower(rawQuery))

	if query != "" && strings.Contains(lower, query) {
		return math.Min(0.95, 0.8*r.cfg.PhraseBoost)
	}

	if score, ok := r.wordPairOverlap(lower, query); ok {
		return score
	}

	return r.termMatchScore(lower, keyTerms)
}

// wordPairOverlap scores consecutive two-word phrases of the query found
// in the content.
func (r *Reranker) wordPairOverlap(content, query string) (float64, bool) {
	words := strings.Fields(query)
	if len(words) < 2 {
		return 0, false
	}
	matched := 0
	for i := 0; i+1 < len(words); i++ {
		pair := words[i] + " " + words[i+1]
		if strings.Contains(content, pair) {
			matched++
		}
	}
	if matched == 0 {
		return 0, false
	}
	return math.Min(0.9, 0.5+0.4*float64(matched)/float64(len(words)-1)), true
}

func (r *Reranker) termMatchScore(content string, keyTerms []string) float64 {
	if len(keyTerms) == 0 {
		return 0
	}
	var score float64
	positions := make([][]int, 0, len(keyTerms))
	for _, term := range keyTerms {
		t := strings.ToLower(term)
		count := strings.Count(content, t)
		if count == 0 {
			continue
		}
		// Diminishing returns on repeated occurrences.
		score += (1 - math.Pow(0.5, float64(count))) / float64(len(keyTerms))
		positions = append(positions, termPositions(content, t))
	}

	// Proximity bonus: two different key terms within the window.
	if r.proximityHit(positions) {
		score += 0.1
	}
	return math.Min(0.85, score)
}

func (r *Reranker) proximityHit(positions [][]int) bool {
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			for _, a := range positions[i] {
				for _, b := range positions[j] {
					if abs(a-b) <= r.cfg.ProximityWindow {
						return true
					}
				}
			}
		}
	}
	return false
}

// fallback restores pre-rerank composite ordering with sanitized scores.
func (r *Reranker) fallback(results []*scoring.ScoredResult) []*scoring.ScoredResult {
	for _, res := range results {
		res.FinalScore = sanitize(res.CompositeScore)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	return results
}

func termPositions(content, term string) []int {
	var out []int
	offset := 0
	for {
		idx := strings.Index(content[offset:], term)
		if idx < 0 {
			return out
		}
		out = append(out, offset+idx)
		offset += idx + len(term)
	}
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
