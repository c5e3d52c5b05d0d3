package main

import (
	"context"
	"log"
	"strings"
	"time"

	"document-search-be/internal/config"
	"document-search-be/internal/entity"
	"document-search-be/internal/repository/specification"
	"document-search-be/internal/repository/unitofwork"
	"document-search-be/pkg/database"
	"document-search-be/pkg/embedding"
)

// Seeds a small document corpus with real embeddings so the search
// pipeline can be exercised end to end on a fresh database.
func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	var provider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	case "gemini":
		provider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	default:
		provider = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.OpenAIModel)
	}

	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(context.Background())
	ctx := context.Background()

	log.Println("Seeding sample documents...")

	samples := []struct {
		filename string
		fileType string
		content  string
	}{
		{
			filename: "Healthcare Strategy 2026.pptx",
			fileType: "pptx",
			content: "Our healthcare strategy for 2026 focuses on preventive care, " +
				"patient engagement, and clinical data interoperability. " +
				"Key initiatives include telehealth expansion and electronic health record integration.",
		},
		{
			filename: "Textile Industry Report.pdf",
			fileType: "pdf",
			content: "The textile industry saw strong export growth this quarter. " +
				"Manufacturing capacity expanded across three production facilities, " +
				"while quality control processes were standardized plant-wide.",
		},
		{
			filename: "Cloud Kitchen Business Plan.pptx",
			fileType: "pptx",
			content: "A cloud kitchen operates delivery-only restaurant brands from shared " +
				"commercial kitchen space. This business plan covers unit economics, " +
				"customer acquisition channels, and a three-year revenue projection.",
		},
		{
			filename: "Renewable Energy Budget.xlsx",
			fileType: "xlsx",
			content: "Budget allocations for renewable energy projects: solar power installations, " +
				"wind energy feasibility studies, and carbon footprint reduction programs.",
		},
	}

	for _, s := range samples {
		existing, err := uow.DocumentRepository().FindOne(ctx, specification.FilenameContains{Term: s.filename})
		if err == nil && existing != nil {
			log.Printf("Document %q already exists, skipping...", s.filename)
			continue
		}

		doc := &entity.Document{
			Filename:  s.filename,
			FileType:  s.fileType,
			FileSize:  int64(len(s.content)),
			Metadata:  map[string]interface{}{"seed": true},
			CreatedAt: time.Now(),
		}
		if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
			log.Fatalf("Error: Failed to create document %q: %v", s.filename, err)
		}

		// One chunk per paragraph keeps the sample realistic without a
		// full chunking pipeline.
		paragraphs := strings.Split(s.content, ". ")
		chunks := make([]*entity.DocumentChunk, 0, len(paragraphs))
		embeddings := make([][]float32, 0, len(paragraphs))
		for i, p := range paragraphs {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			res, err := provider.Generate(p, embedding.TaskRetrievalDocument)
			if err != nil {
				log.Fatalf("Error: Embedding failed for %q: %v", s.filename, err)
			}
			chunks = append(chunks, &entity.DocumentChunk{
				DocumentId: doc.Id,
				ChunkIndex: i,
				Content:    p,
			})
			embeddings = append(embeddings, res.Embedding.Values)
		}

		if err := uow.DocumentChunkRepository().CreateBulk(ctx, chunks, embeddings); err != nil {
			log.Fatalf("Error: Failed to store chunks for %q: %v", s.filename, err)
		}
		log.Printf("Seeded %q with %d chunks", s.filename, len(chunks))
	}

	log.Println("Seeding completed.")
}
