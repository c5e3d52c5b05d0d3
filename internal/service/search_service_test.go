package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"document-search-be/internal/dto"
	"document-search-be/internal/entity"
	"document-search-be/internal/pkg/apperrors"
	"document-search-be/internal/pkg/logger"
	"document-search-be/internal/repository/contract"
	"document-search-be/internal/repository/unitofwork"
	"document-search-be/pkg/embedding"
	"document-search-be/pkg/search/cascade"
	"document-search-be/pkg/search/queryprocessor"
	"document-search-be/pkg/search/rerank"
	"document-search-be/pkg/search/scoring"
	"document-search-be/pkg/search/snippet"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// --- fakes ---

type stubProvider struct{}

func (stubProvider) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type stubChunkRepo struct {
	contract.DocumentChunkRepository
	scored []*contract.ScoredDocumentChunk
}

func (s *stubChunkRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, threshold float64, fileType string) ([]*contract.ScoredDocumentChunk, error) {
	return s.scored, nil
}

func (s *stubChunkRepo) SearchText(ctx context.Context, terms []string, limit int) ([]*entity.DocumentChunk, error) {
	return nil, nil
}

type stubDocRepo struct {
	contract.DocumentRepository
	docs map[uuid.UUID]*entity.Document
}

func (s *stubDocRepo) GetByIds(ctx context.Context, ids []uuid.UUID) ([]*entity.Document, error) {
	var out []*entity.Document
	for _, id := range ids {
		if d, ok := s.docs[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *stubDocRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Document, error) {
	var out []*entity.Document
	for _, d := range s.docs {
		out = append(out, d)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubUow struct {
	docs   *stubDocRepo
	chunks *stubChunkRepo
}

func (s *stubUow) Begin(ctx context.Context) error { return nil }
func (s *stubUow) Commit() error                   { return nil }
func (s *stubUow) Rollback() error                 { return nil }
func (s *stubUow) DocumentRepository() contract.DocumentRepository {
	return s.docs
}
func (s *stubUow) DocumentChunkRepository() contract.DocumentChunkRepository {
	return s.chunks
}

type stubFactory struct{ uow *stubUow }

func (s *stubFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return s.uow }

func newTestService(uow *stubUow) ISearchService {
	log := logger.NewNoop()
	return NewSearchService(
		&stubFactory{uow: uow},
		queryprocessor.NewProcessor(queryprocessor.DefaultCatalog()),
		cascade.New(stubProvider{}, log, cascade.DefaultConfig()),
		scoring.NewScorer(scoring.DefaultWeights()),
		rerank.New(rerank.DefaultConfig(), log),
		snippet.New(200),
		nil, // result cache disabled
		log,
		5,
		true,
	)
}

func chunkFor(docID uuid.UUID, content string, sim float64) *contract.ScoredDocumentChunk {
	return &contract.ScoredDocumentChunk{
		Chunk: &entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: docID,
			Content:    content,
		},
		Similarity: sim,
	}
}

// --- tests ---

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := newTestService(&stubUow{docs: &stubDocRepo{}, chunks: &stubChunkRepo{}})

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := svc.Search(context.Background(), &dto.SearchRequest{Query: q})
		assert.Error(t, err)
		assert.Equal(t, 400, apperrors.StatusOf(err))
	}
}

func TestSearchEndToEnd(t *testing.T) {
	exactDoc := uuid.New()
	otherDoc := uuid.New()

	uow := &stubUow{
		docs: &stubDocRepo{docs: map[uuid.UUID]*entity.Document{
			exactDoc: {Id: exactDoc, Filename: "Healthcare Strategy.pptx", FileType: "pptx", CreatedAt: time.Now().AddDate(0, -1, 0)},
			otherDoc: {Id: otherDoc, Filename: "Quarterly Numbers.xlsx", FileType: "xlsx", CreatedAt: time.Now().AddDate(-2, 0, 0)},
		}},
		chunks: &stubChunkRepo{scored: []*contract.ScoredDocumentChunk{
			chunkFor(otherDoc, "budget allocations for healthcare strategy initiatives next year", 0.93),
			chunkFor(exactDoc, "our healthcare strategy focuses on prevention", 0.71),
		}},
	}

	svc := newTestService(uow)
	res, err := svc.Search(context.Background(), &dto.SearchRequest{Query: "healthcare strategy"})

	assert.NoError(t, err)
	assert.Len(t, res.Results, 2)
	assert.Equal(t, cascade.StagePrimary, res.Results[0].RetrievalStage)

	// The exact filename match outranks the higher-similarity chunk.
	first := res.Results[0]
	assert.Equal(t, "Healthcare Strategy.pptx", first.Filename)
	assert.True(t, first.ExactFilenameMatch)
	assert.Equal(t, 1.0, first.Score)

	second := res.Results[1]
	assert.False(t, second.ExactFilenameMatch)
	assert.LessOrEqual(t, second.Score, 0.99)

	// Snippets carry highlight markup for matched terms.
	assert.Contains(t, first.Snippet, "<mark>healthcare strategy</mark>")

	assert.Equal(t, 1, res.Pagination.Page)
	assert.Equal(t, 2, res.Pagination.Total)
}

func TestSearchHonorsRequestLimit(t *testing.T) {
	uow := &stubUow{
		docs:   &stubDocRepo{docs: map[uuid.UUID]*entity.Document{}},
		chunks: &stubChunkRepo{},
	}
	for i := 0; i < 4; i++ {
		id := uuid.New()
		uow.docs.docs[id] = &entity.Document{Id: id, Filename: "Doc.pdf"}
		uow.chunks.scored = append(uow.chunks.scored, chunkFor(id, "solar output data", 0.9))
	}

	svc := newTestService(uow)
	res, err := svc.Search(context.Background(), &dto.SearchRequest{Query: "solar output", Limit: 2})

	assert.NoError(t, err)
	assert.Len(t, res.Results, 2)
	assert.Equal(t, 2, res.Pagination.Limit)
}

func TestSearchCapsLimitAtMaxResults(t *testing.T) {
	uow := &stubUow{
		docs:   &stubDocRepo{docs: map[uuid.UUID]*entity.Document{}},
		chunks: &stubChunkRepo{},
	}
	for i := 0; i < 8; i++ {
		id := uuid.New()
		uow.docs.docs[id] = &entity.Document{Id: id, Filename: "Doc.pdf"}
		uow.chunks.scored = append(uow.chunks.scored, chunkFor(id, "solar output data", 0.9))
	}

	svc := newTestService(uow)
	res, err := svc.Search(context.Background(), &dto.SearchRequest{Query: "solar output", Limit: 50})

	assert.NoError(t, err)
	assert.Len(t, res.Results, 5, "requested limit above the cap is clamped")
}

func TestSearchWithoutRerankerStillCapsNonExact(t *testing.T) {
	doc := uuid.New()
	uow := &stubUow{
		docs: &stubDocRepo{docs: map[uuid.UUID]*entity.Document{
			doc: {Id: doc, Filename: "Other.pdf", CreatedAt: time.Now()},
		}},
		chunks: &stubChunkRepo{scored: []*contract.ScoredDocumentChunk{
			chunkFor(doc, "wind turbines wind turbines wind turbines", 1.0),
		}},
	}

	svc := newTestService(uow)
	off := false
	res, err := svc.Search(context.Background(), &dto.SearchRequest{Query: "wind turbines", UseReranker: &off})

	assert.NoError(t, err)
	assert.Len(t, res.Results, 1)
	assert.False(t, res.Results[0].ExactFilenameMatch)
	assert.LessOrEqual(t, res.Results[0].Score, 0.99)
	assert.Zero(t, res.Results[0].RerankScore, "reranker disabled")
}

func TestSearchWithoutRerankerPinsExactMatches(t *testing.T) {
	exactDoc := uuid.New()
	otherDoc := uuid.New()

	uow := &stubUow{
		docs: &stubDocRepo{docs: map[uuid.UUID]*entity.Document{
			exactDoc: {Id: exactDoc, Filename: "Healthcare Strategy.pptx", CreatedAt: time.Now()},
			otherDoc: {Id: otherDoc, Filename: "Unrelated.xlsx", CreatedAt: time.Now()},
		}},
		chunks: &stubChunkRepo{scored: []*contract.ScoredDocumentChunk{
			chunkFor(otherDoc, "healthcare strategy healthcare strategy healthcare strategy", 0.97),
			chunkFor(exactDoc, "loosely related planning notes", 0.50),
		}},
	}

	svc := newTestService(uow)
	off := false
	res, err := svc.Search(context.Background(), &dto.SearchRequest{Query: "healthcare strategy", UseReranker: &off})

	assert.NoError(t, err)
	assert.Len(t, res.Results, 2)

	// A filename containing every key term wins regardless of the
	// reranker setting, and only it may carry a perfect score.
	first := res.Results[0]
	assert.Equal(t, "Healthcare Strategy.pptx", first.Filename)
	assert.True(t, first.ExactFilenameMatch)
	assert.Equal(t, 1.0, first.Score)

	second := res.Results[1]
	assert.False(t, second.ExactFilenameMatch)
	assert.LessOrEqual(t, second.Score, 0.99)
}

func TestRecentDocuments(t *testing.T) {
	doc := uuid.New()
	uow := &stubUow{
		docs: &stubDocRepo{docs: map[uuid.UUID]*entity.Document{
			doc: {Id: doc, Filename: "Latest.pptx", FileType: "pptx", FileSize: 2048},
		}},
		chunks: &stubChunkRepo{},
	}

	svc := newTestService(uow)
	out, err := svc.RecentDocuments(context.Background(), 5)

	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "Latest.pptx", out[0].Filename)
	assert.Equal(t, int64(2048), out[0].FileSize)
}

func TestSearchSnippetRespectsHighlighterLength(t *testing.T) {
	doc := uuid.New()
	long := strings.Repeat("filler words before the match region ", 20) +
		"machine learning pipelines deserve careful monitoring " +
		strings.Repeat("and filler words after the match region ", 20)

	uow := &stubUow{
		docs: &stubDocRepo{docs: map[uuid.UUID]*entity.Document{
			doc: {Id: doc, Filename: "MLOps.pdf", CreatedAt: time.Now()},
		}},
		chunks: &stubChunkRepo{scored: []*contract.ScoredDocumentChunk{
			chunkFor(doc, long, 0.8),
		}},
	}

	svc := newTestService(uow)
	res, err := svc.Search(context.Background(), &dto.SearchRequest{Query: "machine learning pipelines"})

	assert.NoError(t, err)
	assert.Len(t, res.Results, 1)

	snip := res.Results[0].Snippet
	assert.Contains(t, snip, "<mark>")
	plain := strings.NewReplacer("<mark>", "", "</mark>", "", "...", "").Replace(snip)
	assert.Less(t, len(plain), len(long), "snippet must be an excerpt, not the whole chunk")
}
