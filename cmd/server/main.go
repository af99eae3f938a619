package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pullstory/api/internal/config"
	"github.com/pullstory/api/internal/database"
	"github.com/pullstory/api/internal/github"
	"github.com/pullstory/api/internal/handler"
	"github.com/pullstory/api/internal/middleware"
	"github.com/pullstory/api/internal/repository"
	"github.com/pullstory/api/internal/service"
)

// main is the single entry-point for the REST API.
func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("Configuration loaded:")
	log.Printf("  - Storage: %s", cfg.Storage)
	log.Printf("  - Summarizer: %s", cfg.Summarizer)
	log.Printf("  - Default language: %s", cfg.DefaultLang)

	// Stores
	var (
		articleStore service.ArticleStore
		likeStore    service.LikeStore
		userStore    service.CredentialStore
		mongoClient  *mongo.Client
	)

	switch cfg.Storage {
	case "memory":
		log.Printf("Using in-memory storage (development mode)")
		articleStore = repository.NewArticleMemory()
		likeStore = repository.NewLikeMemory()
		userStore = repository.NewUserMemory()
	default:
		client, ctx, cancel, err := database.NewMongo(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer cancel()
		defer client.Disconnect(ctx)
		log.Printf("Connected to MongoDB, database %s", cfg.DBName)

		db := client.Database(cfg.DBName)
		articles, err := repository.NewArticleRepository(db)
		if err != nil {
			log.Fatalf("Failed to initialize article repository: %v", err)
		}
		likes, err := repository.NewLikeRepository(db)
		if err != nil {
			log.Fatalf("Failed to initialize like repository: %v", err)
		}
		articleStore = articles
		likeStore = likes
		userStore = repository.NewUserRepository(db)
		mongoClient = client
	}

	// Summarizer
	var summarizer service.Summarizer
	switch cfg.Summarizer {
	case "dummy":
		summarizer = service.NewDummySummarizer()
	case "openai":
		s, err := service.NewOpenAISummarizer(cfg.OpenAIKey, cfg.OpenAIModel)
		if err != nil {
			log.Fatalf("Failed to initialize OpenAI summarizer: %v", err)
		}
		summarizer = s
	default:
		s, err := service.NewVertexSummarizer(cfg.ProjectID, cfg.Location, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to initialize Vertex AI summarizer: %v", err)
		}
		defer s.Close()
		summarizer = s
	}

	// Services
	source := service.NewGitHubSource(userStore, github.NewClient())
	articleSvc := service.NewArticleService(articleStore, source, summarizer, cfg.DefaultLang)
	engagementSvc := service.NewEngagementService(articleStore, likeStore)
	rankingSvc := service.NewRankingService(articleStore)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Add middleware
	app.Use(middleware.Logging())
	app.Use(middleware.Identify())

	// Register routes
	handler.RegisterRoutes(app, articleSvc, engagementSvc, rankingSvc)
	handler.NewHealthHandler(mongoClient).Register(app)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
