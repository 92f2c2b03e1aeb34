package api

import (
	"net/http"

	"github.com/Rrens/chat-store/internal/api/handler"
	customMiddleware "github.com/Rrens/chat-store/internal/api/middleware"
	"github.com/Rrens/chat-store/internal/config"
	"github.com/Rrens/chat-store/internal/llm"
	"github.com/Rrens/chat-store/internal/llm/gemini"
	"github.com/Rrens/chat-store/internal/persist"
	"github.com/Rrens/chat-store/internal/repository/postgres"
	"github.com/Rrens/chat-store/internal/repository/redis"
	"github.com/Rrens/chat-store/internal/security"
	"github.com/Rrens/chat-store/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	partRepo := postgres.NewPartRepository(db)
	docRepo := postgres.NewDocumentRepository(db)

	// Initialize rate limiter and history cache
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)
	historyCache := redis.NewHistoryCache(redisClient)

	// Persistence pipeline
	writer := persist.NewWriter(sessionRepo, partRepo, historyCache)
	fetcher := persist.NewFetcher(sessionRepo, partRepo, historyCache)

	// Initialize LLM Router with providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	} else {
		log.Warn().Msg("Gemini API Key is empty, skipping registration")
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	chatService := service.NewChatService(
		sessionRepo,
		docRepo,
		writer,
		fetcher,
		llmRouter,
		cfg.Storage.SearchChunkHits,
	)
	docService := service.NewDocumentService(docRepo, cfg.Storage.UploadDir, cfg.Storage.ChunkSizeRunes)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)
	sessionHandler := handler.NewSessionHandler(chatService)
	documentHandler := handler.NewDocumentHandler(docService, cfg.Storage.MaxUploadBytes)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Get("/me", authHandler.Me)
			r.Get("/llm-providers", handler.ListLLMProviders(llmRouter))

			r.Post("/chat", chatHandler.Chat)

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", sessionHandler.List)

				r.Route("/{sessionID}", func(r chi.Router) {
					r.Get("/", sessionHandler.GetHistory)
					r.Patch("/", sessionHandler.Rename)
					r.Delete("/", sessionHandler.Delete)
				})
			})

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", documentHandler.List)
				r.Post("/", documentHandler.Upload)
				r.Delete("/{documentID}", documentHandler.Delete)
			})
		})
	})

	return r
}
