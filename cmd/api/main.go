package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/pageza/reciperoulette/backend/config"
	"github.com/pageza/reciperoulette/backend/internal/api"
	"github.com/pageza/reciperoulette/backend/internal/database"
	"github.com/pageza/reciperoulette/backend/internal/logging"
	"github.com/pageza/reciperoulette/backend/internal/middleware"
	"github.com/pageza/reciperoulette/backend/internal/recipestate"
	"github.com/pageza/reciperoulette/backend/internal/server"
	"github.com/pageza/reciperoulette/backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logging.Setup(cfg.Settings.Log); err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.New(cfg)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	healthChecks := map[string]api.HealthCheckFunc{
		"database": db.HealthCheck,
	}

	// Redis backs the suggestion cache and the generation rate limit. The API
	// keeps serving without it.
	var (
		batchCache service.BatchCache
		limiter    *middleware.RateLimiter
	)
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Redis unavailable, suggestion cache and rate limiting disabled")
	} else {
		defer redisClient.Close()
		batchCache = service.NewRedisBatchCache(redisClient)
		limiter = middleware.NewGenerationRateLimiter(redisClient, cfg.Settings.RateLimit)
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	// Object storage for history exports is optional
	var objectStore service.ObjectStore
	if s3, err := config.NewS3Config(ctx, cfg.Settings.Export); err != nil {
		logrus.WithError(err).Warn("S3 unavailable, history export disabled")
	} else {
		objectStore = s3
	}

	// Initialize services
	emailService := service.NewEmailService()
	authService := service.NewAuthService(db.DB, cfg.JWTSecret, emailService)
	ingredientService, err := service.NewIngredientService(db.DB)
	if err != nil {
		logrus.Fatalf("Failed to create ingredient service: %v", err)
	}
	preferencesService := service.NewPreferencesService(db.DB, ingredientService)

	store := recipestate.NewStore(db.DB)
	coordinator := recipestate.NewCoordinator(store, cfg.Settings.TransactionTimeout())
	engine := recipestate.NewEngine(store, coordinator, authService)

	generatorService := service.NewGeneratorService(cfg.LLMAPIKey, cfg.Settings.LLM, batchCache)
	exportService := service.NewExportService(engine, objectStore, cfg.Settings.ExportURLExpiry())

	// Create and start server
	srv := server.New(cfg, api.Services{
		Auth:              authService,
		Preferences:       preferencesService,
		Ingredients:       ingredientService,
		RecipeState:       engine,
		Generator:         generatorService,
		Export:            exportService,
		GenerationLimiter: limiter,
		HealthChecks:      healthChecks,
	})
	if err := srv.Start(ctx); err != nil {
		logrus.Fatalf("Server error: %v", err)
	}
	logrus.Info("Server stopped")
}

