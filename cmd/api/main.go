package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/augentlabs/innovation-hub/internal/auth"
	"github.com/augentlabs/innovation-hub/internal/config"
	"github.com/augentlabs/innovation-hub/internal/database"
	"github.com/augentlabs/innovation-hub/internal/handlers"
	"github.com/augentlabs/innovation-hub/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	// 2. Database Connection
	db := database.Connect(cfg.DatabaseURL)

	// 3. Initialize Core Services (Dependencies)
	var llm services.Generator
	if cfg.HasLLM() {
		llmService, err := services.NewLLMService(context.Background(), cfg)
		if err != nil {
			log.Printf("⚠️ LLM init failed: %v. Research and scoring disabled.", err)
		} else {
			llm = llmService
		}
	} else {
		log.Println("⚠️ No LLM credentials configured. Research and scoring disabled.")
	}

	searchService := services.NewSearchService(cfg.TavilyAPIKey, cfg.TavilyBaseURL)
	researchService := services.NewResearchService(searchService, llm)
	companyService := services.NewCompanyService(db, researchService, llm, time.Duration(cfg.CompanyCacheTTLHours)*time.Hour)
	ideaResearchService := services.NewIdeaResearchService(researchService, llm)
	resourceService := services.NewResourceService(llm)
	questionService := services.NewQuestionService(llm)
	workflowService := services.NewWorkflowService(db, companyService, ideaResearchService, resourceService, questionService)

	ideaService := services.NewIdeaService(db)
	scoreService := services.NewScoreService(llm)
	documentService := services.NewDocumentService(llm)
	portfolioService := services.NewPortfolioService()
	authService := auth.NewAuthService(db)

	// 4. Background auto-scoring of submitted ideas
	if cfg.ScoreWatcherEnabled && llm != nil {
		watcher := services.NewScoreWatcher(ideaService, scoreService, time.Duration(cfg.ScoreIntervalMinutes)*time.Minute)
		watcher.StartWatcher()
	}

	// 5. Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	ideaHandler := handlers.NewIdeaHandler(ideaService, scoreService, workflowService, documentService)
	reviewHandler := handlers.NewReviewHandler(ideaService)
	portfolioHandler := handlers.NewPortfolioHandler(ideaService, portfolioService)

	// 6. Setup Router & CORS
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // For development only
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// 7. Define Routes
	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/sections", handlers.GetSections)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		// Everything below requires a session
		authed := api.Group("")
		authed.Use(authService.RequireAuth())
		{
			authed.POST("/ideas", ideaHandler.SubmitIdea)
			authed.GET("/ideas", ideaHandler.ListIdeas)
			authed.GET("/ideas/:session", ideaHandler.GetIdea)
			authed.PUT("/ideas/:session", ideaHandler.UpdateIdea)
			authed.POST("/ideas/:session/complete", ideaHandler.CompleteIdea)

			authed.POST("/ideas/:session/score", ideaHandler.ScoreIdea)
			authed.POST("/ideas/:session/score/enhanced", ideaHandler.ScoreIdeaEnhanced)
			authed.GET("/ideas/:session/score/explanation", ideaHandler.ExplainScore)

			authed.POST("/ideas/:session/research", ideaHandler.RunResearch)
			authed.GET("/ideas/:session/research", ideaHandler.GetResearch)
			authed.POST("/ideas/:session/document", ideaHandler.GenerateDocument)

			// Reviewer-only routes
			reviewer := authed.Group("")
			reviewer.Use(auth.RequireReviewer())
			{
				reviewer.GET("/reviews/queue", reviewHandler.Queue)
				reviewer.POST("/ideas/:session/review", reviewHandler.SubmitReview)
				reviewer.GET("/portfolio", portfolioHandler.Analyze)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("🚀 Server starting on port %d...", cfg.Port)
	if err := r.Run(addr); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
