package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pantry/internal/auth"
	"github.com/mrlokans/pantry/internal/catalog"
	"github.com/mrlokans/pantry/internal/config"
	"github.com/mrlokans/pantry/internal/database"
	"github.com/mrlokans/pantry/internal/database/inventory"
	"github.com/mrlokans/pantry/internal/database/locations"
	"github.com/mrlokans/pantry/internal/database/products"
	"github.com/mrlokans/pantry/internal/estimation"
	"github.com/mrlokans/pantry/internal/extraction"
	http_controllers "github.com/mrlokans/pantry/internal/http"
	"github.com/mrlokans/pantry/internal/review"
	"github.com/mrlokans/pantry/internal/scheduler"
	"github.com/mrlokans/pantry/internal/services"
	"github.com/mrlokans/pantry/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Pantry v%s", version)

	if cfg.Extraction.APIKey == "" {
		log.Printf("WARNING: ANTHROPIC_API_KEY is not set. Text parsing and estimation endpoints will fail until it is configured.")
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories
	locationRepo := locations.NewRepository(db.DB)
	productRepo := products.NewRepository(db.DB)
	inventoryRepo := inventory.NewRepository(db.DB)

	// Extraction pipeline: LLM client, rate limiter, parsing service
	extractionClient := extraction.NewClient(cfg.Extraction)
	extractionLimiter := extraction.NewRateLimiter(cfg.Extraction.RateWindow, cfg.Extraction.RateMaxReqs)
	extractor := extraction.NewService(extractionClient, extractionLimiter)

	// Shelf-life estimation shares the LLM client but has its own budget
	estimationLimiter := extraction.NewRateLimiter(cfg.Estimation.RateWindow, cfg.Estimation.RateMaxReqs)
	estimator := estimation.NewEstimator(extractionClient, estimationLimiter, cfg.Estimation.MaxTokens)

	// External product catalog for barcode lookups
	catalogClient := catalog.NewOpenFoodFactsClient(cfg.Catalog.BaseURL)

	// Review sessions live in memory and expire on inactivity
	reviewStore := review.NewSessionStore(cfg.Review.SessionTTL)
	defer reviewStore.Stop()

	commitService := services.NewCommitService(productRepo, locationRepo, inventoryRepo)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var estimationScheduler *scheduler.EstimationSweepScheduler
	var cleanupScheduler *scheduler.HistoryCleanupScheduler
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// Register task queues
		taskClient.Register(
			tasks.NewEstimateExpirationQueue(inventoryRepo, estimator),
			tasks.NewEstimatePendingQueue(inventoryRepo, estimator),
			tasks.NewCleanupHistoryQueue(inventoryRepo),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		// Schedulers enqueue recurring tasks
		estimationScheduler = scheduler.NewEstimationSweepScheduler(taskClient, cfg.Estimation)
		if err := estimationScheduler.Start(taskCtx); err != nil {
			log.Fatalf("Failed to start estimation scheduler: %v", err)
		}

		cleanupScheduler = scheduler.NewHistoryCleanupScheduler(taskClient, cfg.History)
		if err := cleanupScheduler.Start(taskCtx); err != nil {
			log.Fatalf("Failed to start history cleanup scheduler: %v", err)
		}
	}

	// Initialize authentication if enabled
	var authService *auth.Service
	var authMiddleware *auth.Middleware
	var sessionManager *auth.SessionManager
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		authService = auth.NewService(db.DB, cfg.Auth)

		// Get underlying SQL DB for session store
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}

		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		authMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)

		// Generate or use configured CSRF secret
		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}

		// Check if setup is needed
		hasUsers, _ := authService.HasUsers()
		if !hasUsers {
			log.Printf("No users found. POST to /setup to create the first account.")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		LocationStore:  locationRepo,
		ProductStore:   productRepo,
		InventoryStore: inventoryRepo,
		Extractor:      extractor,
		ReviewStore:    reviewStore,
		CommitService:  commitService,
		Estimator:      estimator,
		CatalogClient:  catalogClient,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		SessionManager: sessionManager,
		AuthConfig:     cfg.Auth,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		TaskClient:     taskClient,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if estimationScheduler != nil {
			estimationScheduler.Stop()
		}
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
