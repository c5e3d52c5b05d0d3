package queryprocessor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ProcessedQuery is the immutable result of analyzing one raw query.
type ProcessedQuery struct {
	OriginalQuery        string
	CleanedQuery         string
	EnhancedQuery        string
	KeyTerms             []string
	DocumentTypes        []DocumentTypeHint
	ConversationalIntent bool
	Threshold            float64
}

// DocumentTypeHint is a detected document-type intent (e.g. "presentation").
type DocumentTypeHint struct {
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
}

// ThresholdTiers maps query shape to a similarity threshold. Short lookup
// queries need a permissive threshold; long multi-clause queries embed with
// enough signal to demand a strict one. Reference values, tunable via config.
type ThresholdTiers struct {
	Short      float64 // <= 2 significant words
	Medium     float64 // <= 5
	Long       float64 // <= 9
	MultiClause float64
}

func DefaultThresholdTiers() ThresholdTiers {
	return ThresholdTiers{Short: 0.25, Medium: 0.45, Long: 0.60, MultiClause: 0.70}
}

// Processor turns raw user queries into ProcessedQuery values. It holds only
// read-only catalog state and is safe for concurrent use.
type Processor struct {
	catalog *Catalog
	tiers   ThresholdTiers
}

func NewProcessor(catalog *Catalog) *Processor {
	return NewProcessorWithTiers(catalog, DefaultThresholdTiers())
}

func NewProcessorWithTiers(catalog *Catalog, tiers ThresholdTiers) *Processor {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Processor{catalog: catalog, tiers: tiers}
}

var placeholderPattern = regexp.MustCompile(`^qpph(\d+)$`)

// Process normalizes and decomposes a raw query. It never fails: empty or
// degenerate input degrades to echoing the raw query with no key terms.
func (p *Processor) Process(raw string) ProcessedQuery {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ProcessedQuery{
			OriginalQuery: raw,
			CleanedQuery:  raw,
			EnhancedQuery: raw,
			KeyTerms:      []string{},
			DocumentTypes: []DocumentTypeHint{},
			Threshold:     p.tiers.Short,
		}
	}

	lower := strings.ToLower(trimmed)

	cleaned, conversational := p.stripConversationalPrefix(lower)
	cleaned = p.stripTrailingPreposition(cleaned)

	// Document-type words stay in the query; they still help retrieval.
	docTypes := p.detectDocumentTypes(cleaned)

	// "... about X" makes X the authoritative topic. When the query opened
	// conversationally the wrapper adds nothing, so the topic replaces it.
	if topic, ok := p.extractTopic(cleaned); ok && conversational {
		cleaned = topic
	}

	keyTerms := p.extractKeyTerms(cleaned)
	enhanced := p.buildEnhancedQuery(cleaned, keyTerms, docTypes)

	return ProcessedQuery{
		OriginalQuery:        raw,
		CleanedQuery:         cleaned,
		EnhancedQuery:        enhanced,
		KeyTerms:             keyTerms,
		DocumentTypes:        docTypes,
		ConversationalIntent: conversational,
		Threshold:            p.DynamicThreshold(keyTerms),
	}
}

// DynamicThreshold picks the similarity threshold tier for a term set.
func (p *Processor) DynamicThreshold(keyTerms []string) float64 {
	switch n := len(keyTerms); {
	case n <= 2:
		return p.tiers.Short
	case n <= 5:
		return p.tiers.Medium
	case n <= 9:
		return p.tiers.Long
	default:
		return p.tiers.MultiClause
	}
}

func (p *Processor) stripConversationalPrefix(q string) (string, bool) {
	for _, prefix := range p.catalog.ConversationalPrefixes {
		if q == prefix {
			return "", true
		}
		if strings.HasPrefix(q, prefix+" ") {
			return strings.TrimSpace(q[len(prefix):]), true
		}
	}
	return q, false
}

func (p *Processor) stripTrailingPreposition(q string) string {
	for _, prep := range p.catalog.TopicPrepositions {
		if q == prep {
			return ""
		}
		if strings.HasSuffix(q, " "+prep) {
			return strings.TrimSpace(q[:len(q)-len(prep)])
		}
	}
	return q
}

// extractTopic returns the text following the first topic preposition.
func (p *Processor) extractTopic(q string) (string, bool) {
	bestIdx := -1
	bestLen := 0
	for _, prep := range p.catalog.TopicPrepositions {
		marker := " " + prep + " "
		if idx := strings.Index(q, marker); idx >= 0 {
			if bestIdx == -1 || idx < bestIdx {
				bestIdx = idx
				bestLen = len(marker)
			}
		}
	}
	if bestIdx < 0 {
		return "", false
	}
	topic := strings.TrimSpace(q[bestIdx+bestLen:])
	if topic == "" {
		return "", false
	}
	return topic, true
}

func (p *Processor) detectDocumentTypes(q string) []DocumentTypeHint {
	hints := []DocumentTypeHint{}
	words := tokenize(q)
	wordSet := make(map[string]struct{}, len(words))
	for _, w := range words {
		wordSet[w] = struct{}{}
	}
	for _, signal := range p.catalog.DocumentTypes {
		for _, kw := range signal.Keywords {
			if _, ok := wordSet[kw]; ok {
				hints = append(hints, DocumentTypeHint{Type: signal.Type, Weight: signal.Weight})
				break
			}
		}
	}
	return hints
}

// extractKeyTerms tokenizes the cleaned query into deduplicated key terms.
// Curated domain phrases are swapped for placeholder tokens before
// tokenization so their boundaries survive, then restored afterwards.
func (p *Processor) extractKeyTerms(q string) []string {
	restore := map[string]string{}
	working := q
	for i, phrase := range p.catalog.DomainPhrases {
		if !strings.Contains(working, phrase) {
			continue
		}
		token := fmt.Sprintf("qpph%d", i)
		restore[token] = phrase
		working = strings.ReplaceAll(working, phrase, " "+token+" ")
	}

	var terms []string
	seen := map[string]struct{}{}
	for _, tok := range tokenize(working) {
		if phrase, ok := restore[tok]; ok {
			tok = phrase
		} else if placeholderPattern.MatchString(tok) {
			continue
		} else {
			if len(tok) <= 2 {
				continue
			}
			if _, stop := p.catalog.Stopwords[tok]; stop {
				continue
			}
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
	}
	if terms == nil {
		terms = []string{}
	}
	return terms
}

// buildEnhancedQuery appends detected document-type names and a few domain
// context boosters so the embedding has more semantic surface to match on.
func (p *Processor) buildEnhancedQuery(cleaned string, keyTerms []string, docTypes []DocumentTypeHint) string {
	parts := []string{cleaned}
	for _, dt := range docTypes {
		if !strings.Contains(cleaned, dt.Type) {
			parts = append(parts, dt.Type)
		}
	}
	appended := map[string]struct{}{}
	for _, term := range keyTerms {
		boosters, ok := p.catalog.DomainContext[term]
		if !ok {
			// Multi-word phrases may still overlap a domain by one word.
			for _, w := range strings.Fields(term) {
				if b, found := p.catalog.DomainContext[w]; found {
					boosters, ok = b, true
					break
				}
			}
		}
		if !ok {
			continue
		}
		for _, b := range boosters {
			if strings.Contains(cleaned, b) {
				continue
			}
			if _, dup := appended[b]; dup {
				continue
			}
			appended[b] = struct{}{}
			parts = append(parts, b)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
