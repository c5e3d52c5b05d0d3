package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"document-search-be/internal/dto"
	"document-search-be/internal/pkg/apperrors"
	"document-search-be/internal/pkg/logger"
	"document-search-be/internal/repository/unitofwork"
	"document-search-be/pkg/search/cascade"
	"document-search-be/pkg/search/queryprocessor"
	"document-search-be/pkg/search/rerank"
	"document-search-be/pkg/search/scoring"
	"document-search-be/pkg/search/snippet"
	"document-search-be/pkg/store"
)

type ISearchService interface {
	Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
	RecentDocuments(ctx context.Context, limit int) ([]*dto.RecentDocumentResponse, error)
}

type searchService struct {
	uowFactory  unitofwork.RepositoryFactory
	processor   *queryprocessor.Processor
	cascade     *cascade.Cascade
	scorer      *scoring.Scorer
	reranker    *rerank.Reranker
	highlighter *snippet.Highlighter
	cache       *store.ResultCache
	logger      logger.ILogger

	maxResults         int
	useRerankerDefault bool
}

func NewSearchService(
	uowFactory unitofwork.RepositoryFactory,
	processor *queryprocessor.Processor,
	casc *cascade.Cascade,
	scorer *scoring.Scorer,
	reranker *rerank.Reranker,
	highlighter *snippet.Highlighter,
	cache *store.ResultCache,
	log logger.ILogger,
	maxResults int,
	useRerankerDefault bool,
) ISearchService {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &searchService{
		uowFactory:         uowFactory,
		processor:          processor,
		cascade:            casc,
		scorer:             scorer,
		reranker:           reranker,
		highlighter:        highlighter,
		cache:              cache,
		logger:             log,
		maxResults:         maxResults,
		useRerankerDefault: useRerankerDefault,
	}
}

func (s *searchService) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, apperrors.NewInvalidQuery("query must not be empty")
	}

	useReranker := s.useRerankerDefault
	if req.UseReranker != nil {
		useReranker = *req.UseReranker
	}

	cacheKey := store.Key(req.Query, req.FileType, useReranker)
	var cached dto.SearchResponse
	if s.cache.Get(ctx, cacheKey, &cached) {
		s.logger.Debug("search", "Result cache hit", map[string]interface{}{"query": req.Query})
		return &cached, nil
	}

	pq := s.processor.Process(req.Query)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	retrieved, err := s.cascade.Retrieve(ctx, uow, pq, req.FileType)
	if err != nil {
		return nil, err
	}

	// Scoring is pure over fetched data, so snippet extraction can run
	// alongside it.
	snippets := make([]string, len(retrieved.Candidates))
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i, cand := range retrieved.Candidates {
			snippets[i] = s.highlighter.Highlight(cand.Content, pq.CleanedQuery, pq.KeyTerms)
		}
	}()

	results := make([]*scoring.ScoredResult, len(retrieved.Candidates))
	for i, cand := range retrieved.Candidates {
		results[i] = s.scorer.Score(cand, req.Query, pq.KeyTerms)
	}
	wg.Wait()
	for i := range results {
		results[i].Snippet = snippets[i]
	}

	if useReranker {
		results = s.reranker.Rerank(req.Query, pq.KeyTerms, results)
	} else {
		// The exact-filename contract holds with the reranker off too:
		// pinned to 1.0 and ordered first, composite as the tie-break.
		for _, res := range results {
			if res.ExactFilenameMatch {
				res.FinalScore = 1.0
			}
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
	}

	// Ordering invariant holds with or without the reranker: only exact
	// filename matches may carry a perfect score.
	for _, res := range results {
		if !res.ExactFilenameMatch && res.FinalScore > 0.99 {
			res.FinalScore = 0.99
		}
	}

	limit := s.maxResults
	if req.Limit > 0 && req.Limit < limit {
		limit = req.Limit
	}
	if len(results) > limit {
		results = results[:limit]
	}

	response := &dto.SearchResponse{
		Results: make([]dto.SearchResultItem, len(results)),
		Pagination: dto.Pagination{
			Page:       1,
			Limit:      limit,
			Total:      len(results),
			TotalPages: 1,
		},
	}
	for i, res := range results {
		response.Results[i] = dto.SearchResultItem{
			DocumentId:         res.Candidate.DocumentID,
			Filename:           res.Candidate.Document.Filename,
			FileType:           res.Candidate.Document.FileType,
			FileSize:           res.Candidate.Document.FileSize,
			ChunkIndex:         res.Candidate.ChunkIndex,
			Snippet:            res.Snippet,
			Score:              res.FinalScore,
			CompositeScore:     res.CompositeScore,
			RerankScore:        res.RerankScore,
			SemanticScore:      res.Components.Semantic,
			ExactFilenameMatch: res.ExactFilenameMatch,
			RetrievalStage:     retrieved.Stage,
			CreatedAt:          res.Candidate.Document.CreatedAt,
			Metadata:           res.Candidate.Document.Metadata,
		}
	}

	s.cache.Set(ctx, cacheKey, response)
	return response, nil
}

func (s *searchService) RecentDocuments(ctx context.Context, limit int) ([]*dto.RecentDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.RecentDocumentResponse, len(docs))
	for i, d := range docs {
		out[i] = &dto.RecentDocumentResponse{
			Id:        d.Id,
			Filename:  d.Filename,
			FileType:  d.FileType,
			FileSize:  d.FileSize,
			Metadata:  d.Metadata,
			CreatedAt: d.CreatedAt,
		}
	}
	return out, nil
}
