package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Search   SearchConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	OpenAI       string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama" or "openai"
	OllamaBaseURL     string
	OllamaModel       string
	OpenAIModel       string
	EmbeddingCacheTTL int // minutes, 0 disables the in-process cache
}

// SearchConfig exposes the empirically tuned pipeline constants. The
// defaults are the reference values; deployments may override them.
type SearchConfig struct {
	MaxResults        int
	UseRerankerByDflt bool
	ResultCacheTTL    int // minutes, 0 disables the Redis result cache

	StageTimeoutSec   int
	RelaxedThreshold  float64
	LexicalSimilarity float64
	RecentSimilarity  float64

	SemanticWeight float64
	ContentWeight  float64
	FilenameWeight float64
	RecencyWeight  float64

	CompositeBlend float64
	RerankBlend    float64
	PhraseBoost    float64

	SnippetLength int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			OpenAIModel:       getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingCacheTTL: getEnvAsInt("EMBEDDING_CACHE_TTL_MIN", 10),
		},
		Search: SearchConfig{
			MaxResults:        getEnvAsInt("SEARCH_MAX_RESULTS", 5),
			UseRerankerByDflt: getEnv("SEARCH_USE_RERANKER", "true") == "true",
			ResultCacheTTL:    getEnvAsInt("SEARCH_RESULT_CACHE_TTL_MIN", 5),
			StageTimeoutSec:   getEnvAsInt("SEARCH_STAGE_TIMEOUT_SEC", 10),
			RelaxedThreshold:  getEnvAsFloat("SEARCH_RELAXED_THRESHOLD", 0.2),
			LexicalSimilarity: getEnvAsFloat("SEARCH_LEXICAL_SIMILARITY", 0.45),
			RecentSimilarity:  getEnvAsFloat("SEARCH_RECENT_SIMILARITY", 0.3),
			SemanticWeight:    getEnvAsFloat("SCORE_SEMANTIC_WEIGHT", 0.65),
			ContentWeight:     getEnvAsFloat("SCORE_CONTENT_WEIGHT", 0.15),
			FilenameWeight:    getEnvAsFloat("SCORE_FILENAME_WEIGHT", 0.15),
			RecencyWeight:     getEnvAsFloat("SCORE_RECENCY_WEIGHT", 0.05),
			CompositeBlend:    getEnvAsFloat("RERANK_COMPOSITE_BLEND", 0.6),
			RerankBlend:       getEnvAsFloat("RERANK_SCORE_BLEND", 0.4),
			PhraseBoost:       getEnvAsFloat("RERANK_PHRASE_BOOST", 1.2),
			SnippetLength:     getEnvAsInt("SNIPPET_MAX_LENGTH", 200),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
