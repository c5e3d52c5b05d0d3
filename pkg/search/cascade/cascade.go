package cascade

import (
	"context"
	"errors"
	"sort"
	"time"

	"document-search-be/internal/entity"
	"document-search-be/internal/pkg/apperrors"
	"document-search-be/internal/pkg/logger"
	"document-search-be/internal/repository/unitofwork"
	"document-search-be/pkg/embedding"
	"document-search-be/pkg/search/queryprocessor"

	"github.com/google/uuid"
)

// Config encapsulates cascade parameters. Reference values are empirically
// tuned; treat them as configuration, not laws.
type Config struct {
	PrimaryLimit     int
	StageTimeout     time.Duration
	RelaxedThreshold float64
	RelaxedLimit     int
	LexicalLimit     int
	// LexicalSimilarity is assigned to every lexical hit. It sits below any
	// genuine vector match so lexical hits never outrank semantic ones.
	LexicalSimilarity float64
	RecentLimit       int
	RecentSimilarity  float64
}

// DefaultConfig returns the reference cascade configuration.
func DefaultConfig() Config {
	return Config{
		PrimaryLimit:      20,
		StageTimeout:      10 * time.Second,
		RelaxedThreshold:  0.2,
		RelaxedLimit:      10,
		LexicalLimit:      10,
		LexicalSimilarity: 0.45,
		RecentLimit:       5,
		RecentSimilarity:  0.3,
	}
}

// Cascade runs retrieval strategies in order until one yields candidates.
// Each stage is strictly cheaper/broader than the one before it; a stage
// error or timeout is absorbed and the next stage runs.
type Cascade struct {
	provider embedding.EmbeddingProvider
	logger   logger.ILogger
	cfg      Config
}

func New(provider embedding.EmbeddingProvider, log logger.ILogger, cfg Config) *Cascade {
	return &Cascade{
		provider: provider,
		logger:   log,
		cfg:      cfg,
	}
}

type stage struct {
	name string
	run  func(ctx context.Context) ([]Candidate, error)
}

// Retrieve runs the cascade for one processed query. fileType optionally
// restricts the primary stage. It returns an empty Result (not an error)
// when every stage legitimately finds nothing; ErrBackendUnavailable only
// when every stage errored.
func (c *Cascade) Retrieve(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	pq queryprocessor.ProcessedQuery,
	fileType string,
) (*Result, error) {

	queryVector, embedErr := c.embedQuery(ctx, pq.EnhancedQuery)
	if embedErr != nil {
		c.logger.Warn("cascade", "Embedding generation failed, skipping vector stages", map[string]interface{}{
			"error": embedErr.Error(),
		})
	}

	stages := []stage{
		{name: StagePrimary, run: func(ctx context.Context) ([]Candidate, error) {
			if embedErr != nil {
				return nil, embedErr
			}
			return c.vectorStage(ctx, uow, queryVector, pq.Threshold, c.cfg.PrimaryLimit, fileType)
		}},
		{name: StageRelaxed, run: func(ctx context.Context) ([]Candidate, error) {
			if embedErr != nil {
				return nil, embedErr
			}
			return c.vectorStage(ctx, uow, queryVector, c.cfg.RelaxedThreshold, c.cfg.RelaxedLimit, "")
		}},
		{name: StageLexical, run: func(ctx context.Context) ([]Candidate, error) {
			return c.lexicalStage(ctx, uow, pq.KeyTerms)
		}},
		{name: StageRecent, run: func(ctx context.Context) ([]Candidate, error) {
			return c.recentStage(ctx, uow)
		}},
	}

	failures := 0
	for _, s := range stages {
		stageCtx, cancel := context.WithTimeout(ctx, c.cfg.StageTimeout)
		candidates, err := s.run(stageCtx)
		cancel()

		if err != nil {
			failures++
			level := "stage failed"
			if errors.Is(err, context.DeadlineExceeded) {
				level = "stage timed out"
				err = errors.Join(apperrors.ErrRetrievalTimeout, err)
			}
			c.logger.Warn("cascade", "Retrieval "+level+", trying next fallback", map[string]interface{}{
				"stage": s.name,
				"error": err.Error(),
			})
			continue
		}
		if len(candidates) == 0 {
			c.logger.Debug("cascade", "Stage produced no candidates", map[string]interface{}{
				"stage": s.name,
			})
			continue
		}

		// Only the primary stage re-filters on its threshold; every later
		// stage is already a degraded answer.
		if s.name == StagePrimary {
			candidates = filterByThreshold(candidates, pq.Threshold)
			if len(candidates) == 0 {
				continue
			}
		}

		candidates = dedupeByDocument(candidates)

		// Hydration is an outbound call too, so it gets the same bound.
		hydrateCtx, hydrateCancel := context.WithTimeout(ctx, c.cfg.StageTimeout)
		hydrateErr := c.hydrate(hydrateCtx, uow, candidates)
		hydrateCancel()
		if hydrateErr != nil {
			c.logger.Warn("cascade", "Failed to hydrate candidates", map[string]interface{}{
				"stage": s.name,
				"error": hydrateErr.Error(),
			})
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Similarity > candidates[j].Similarity
		})

		c.logger.Info("cascade", "Retrieval stage succeeded", map[string]interface{}{
			"stage": s.name,
			"count": len(candidates),
		})
		return &Result{Candidates: candidates, Stage: s.name, Count: len(candidates)}, nil
	}

	if failures == len(stages) {
		return nil, apperrors.NewBackendUnavailable(errors.New("all retrieval stages failed"))
	}

	// Every stage ran and found nothing: a legitimate empty result.
	return &Result{Candidates: []Candidate{}, Count: 0}, nil
}

// embedQuery enforces the timeout contract around providers that do not
// take a context.
func (c *Cascade) embedQuery(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.StageTimeout)
	defer cancel()

	type embedResult struct {
		res *embedding.EmbeddingResponse
		err error
	}
	ch := make(chan embedResult, 1)
	go func() {
		res, err := c.provider.Generate(text, embedding.TaskRetrievalQuery)
		ch <- embedResult{res, err}
	}()

	select {
	case <-ctx.Done():
		return nil, errors.Join(apperrors.ErrEmbeddingUnavailable, ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, errors.Join(apperrors.ErrEmbeddingUnavailable, r.err)
		}
		return r.res.Embedding.Values, nil
	}
}

func (c *Cascade) vectorStage(ctx context.Context, uow unitofwork.UnitOfWork, vector []float32, threshold float64, limit int, fileType string) ([]Candidate, error) {
	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, vector, limit, threshold, fileType)
	if err != nil {
		return nil, err
	}
	candidates := make([]Candidate, 0, len(scored))
	for _, sc := range scored {
		candidates = append(candidates, Candidate{
			ChunkID:    sc.Chunk.Id,
			DocumentID: sc.Chunk.DocumentId,
			ChunkIndex: sc.Chunk.ChunkIndex,
			Content:    sc.Chunk.Content,
			Similarity: sc.Similarity,
		})
	}
	return candidates, nil
}

func (c *Cascade) lexicalStage(ctx context.Context, uow unitofwork.UnitOfWork, keyTerms []string) ([]Candidate, error) {
	if len(keyTerms) == 0 {
		return nil, nil
	}
	chunks, err := uow.DocumentChunkRepository().SearchText(ctx, keyTerms, c.cfg.LexicalLimit)
	if err != nil {
		return nil, err
	}
	candidates := make([]Candidate, 0, len(chunks))
	for _, ch := range chunks {
		candidates = append(candidates, Candidate{
			ChunkID:    ch.Id,
			DocumentID: ch.DocumentId,
			ChunkIndex: ch.ChunkIndex,
			Content:    ch.Content,
			Similarity: c.cfg.LexicalSimilarity,
		})
	}
	return candidates, nil
}

// recentStage synthesizes one low-confidence candidate per recent document
// so the pipeline returns something rather than an empty page.
func (c *Cascade) recentStage(ctx context.Context, uow unitofwork.UnitOfWork) ([]Candidate, error) {
	docs, err := uow.DocumentRepository().ListRecent(ctx, c.cfg.RecentLimit)
	if err != nil {
		return nil, err
	}
	candidates := make([]Candidate, 0, len(docs))
	for _, d := range docs {
		candidates = append(candidates, Candidate{
			DocumentID: d.Id,
			Similarity: c.cfg.RecentSimilarity,
			Document:   toAttributes(d),
		})
	}
	return candidates, nil
}

// hydrate batch-loads document attributes for candidates that lack them.
func (c *Cascade) hydrate(ctx context.Context, uow unitofwork.UnitOfWork, candidates []Candidate) error {
	seen := make(map[uuid.UUID]struct{})
	var missing []uuid.UUID
	for i := range candidates {
		if candidates[i].Document.Filename != "" {
			continue
		}
		if _, dup := seen[candidates[i].DocumentID]; dup {
			continue
		}
		seen[candidates[i].DocumentID] = struct{}{}
		missing = append(missing, candidates[i].DocumentID)
	}
	if len(missing) == 0 {
		return nil
	}

	docs, err := uow.DocumentRepository().GetByIds(ctx, missing)
	if err != nil {
		return err
	}

	attrs := make(map[uuid.UUID]DocumentAttributes, len(docs))
	for _, d := range docs {
		attrs[d.Id] = toAttributes(d)
	}
	for i := range candidates {
		if candidates[i].Document.Filename != "" {
			continue
		}
		if a, ok := attrs[candidates[i].DocumentID]; ok {
			candidates[i].Document = a
		}
	}
	return nil
}

func toAttributes(d *entity.Document) DocumentAttributes {
	return DocumentAttributes{
		Filename:  d.Filename,
		FileType:  d.FileType,
		FileSize:  d.FileSize,
		CreatedAt: d.CreatedAt,
		Metadata:  d.Metadata,
	}
}

func filterByThreshold(candidates []Candidate, threshold float64) []Candidate {
	kept := candidates[:0]
	for _, c := range candidates {
		if c.Similarity >= threshold {
			kept = append(kept, c)
		}
	}
	return kept
}

// dedupeByDocument keeps the highest-similarity chunk per document.
func dedupeByDocument(candidates []Candidate) []Candidate {
	best := make(map[string]int, len(candidates))
	var out []Candidate
	for _, c := range candidates {
		key := c.DocumentID.String()
		if idx, seen := best[key]; seen {
			if c.Similarity > out[idx].Similarity {
				out[idx] = c
			}
			continue
		}
		best[key] = len(out)
		out = append(out, c)
	}
	return out
}
