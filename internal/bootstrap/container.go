package bootstrap

import (
	"context"
	"log"
	"time"

	"document-search-be/internal/config"
	"document-search-be/internal/controller"
	"document-search-be/internal/pkg/logger"
	"document-search-be/internal/repository/unitofwork"
	"document-search-be/internal/service"
	"document-search-be/pkg/embedding"
	"document-search-be/pkg/search/cascade"
	"document-search-be/pkg/search/queryprocessor"
	"document-search-be/pkg/search/rerank"
	"document-search-be/pkg/search/scoring"
	"document-search-be/pkg/search/snippet"
	"document-search-be/pkg/store"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	SearchController   controller.ISearchController
	DocumentController controller.IDocumentController

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	case "gemini":
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	default:
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.OpenAIModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.OpenAIModel)
	}
	if cfg.Ai.EmbeddingCacheTTL > 0 {
		embeddingProvider = embedding.NewCachedProvider(
			embeddingProvider,
			time.Duration(cfg.Ai.EmbeddingCacheTTL)*time.Minute,
		)
	}

	// 3. Redis result cache (optional; the service degrades to no caching)
	var resultCache *store.ResultCache
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v (result cache disabled)", err)
		} else {
			resultCache = store.NewResultCache(rdb, time.Duration(cfg.Search.ResultCacheTTL)*time.Minute)
		}
	}

	// 4. Search pipeline components
	processor := queryprocessor.NewProcessor(queryprocessor.DefaultCatalog())

	cascadeCfg := cascade.DefaultConfig()
	cascadeCfg.StageTimeout = time.Duration(cfg.Search.StageTimeoutSec) * time.Second
	cascadeCfg.RelaxedThreshold = cfg.Search.RelaxedThreshold
	cascadeCfg.LexicalSimilarity = cfg.Search.LexicalSimilarity
	cascadeCfg.RecentSimilarity = cfg.Search.RecentSimilarity
	retrievalCascade := cascade.New(embeddingProvider, sysLogger, cascadeCfg)

	scorer := scoring.NewScorer(scoring.Weights{
		Semantic: cfg.Search.SemanticWeight,
		Content:  cfg.Search.ContentWeight,
		Filename: cfg.Search.FilenameWeight,
		Recency:  cfg.Search.RecencyWeight,
	})

	rerankCfg := rerank.DefaultConfig()
	rerankCfg.CompositeWeight = cfg.Search.CompositeBlend
	rerankCfg.RerankWeight = cfg.Search.RerankBlend
	rerankCfg.PhraseBoost = cfg.Search.PhraseBoost
	reranker := rerank.New(rerankCfg, sysLogger)

	highlighter := snippet.New(cfg.Search.SnippetLength)

	// 5. Services
	searchService := service.NewSearchService(
		uowFactory,
		processor,
		retrievalCascade,
		scorer,
		reranker,
		highlighter,
		resultCache,
		sysLogger,
		cfg.Search.MaxResults,
		cfg.Search.UseRerankerByDflt,
	)

	// 6. Controllers
	return &Container{
		SearchController:   controller.NewSearchController(searchService),
		DocumentController: controller.NewDocumentController(searchService),
		Logger:             sysLogger,
	}
}
