package cascade

import (
	"time"

	"github.com/google/uuid"
)

// Stage names, in the order the cascade attempts them.
const (
	StagePrimary = "vector"
	StageRelaxed = "vector_relaxed"
	StageLexical = "lexical"
	StageRecent  = "recent"
)

// DocumentAttributes are the denormalized document fields carried on a
// candidate for scoring and display.
type DocumentAttributes struct {
	Filename  string
	FileType  string
	FileSize  int64
	CreatedAt time.Time
	Metadata  map[string]interface{}
}

// Candidate is one retrieved chunk, deduplicated to the best chunk per
// document before the cascade returns.
type Candidate struct {
	ChunkID    uuid.UUID
	DocumentID uuid.UUID
	ChunkIndex int
	Content    string
	Similarity float64
	Document   DocumentAttributes
}

// Result is the outcome of one cascade run.
type Result struct {
	Candidates []Candidate
	Stage      string // which stage produced the candidates
	Count      int
}
