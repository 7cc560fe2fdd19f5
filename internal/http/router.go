package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pantry/internal/apierror"
	"github.com/mrlokans/pantry/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// Apply CSRF protection if auth is enabled
	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AuthService))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Apply auth middleware if enabled
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth - inject default user ID
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	// Uniform error bodies for unknown routes and wrong methods
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		respondAPIError(c, apierror.MethodNotAllowed())
	})
	router.NoRoute(func(c *gin.Context) {
		respondAPIError(c, apierror.NotFound("route"))
	})

	// Register auth routes if auth service is available
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.AuthConfig)
		authController.RegisterRoutes(router)

		// API token management endpoints
		tokenController := auth.NewAPITokenController(cfg.AuthService)
		router.POST("/api/auth/token", tokenController.GenerateToken)
		router.DELETE("/api/auth/token", tokenController.RevokeToken)
	}

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Version)
	locationsController := NewLocationsController(cfg.LocationStore)
	productsController := NewProductsController(cfg.ProductStore, cfg.CatalogClient)
	inventoryController := NewInventoryController(cfg.InventoryStore, cfg.ProductStore, cfg.LocationStore, cfg.TaskClient)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Location endpoints
	router.GET("/api/locations", locationsController.ListLocations)

	// Product catalog endpoints
	router.GET("/api/products", productsController.ListProducts)
	router.POST("/api/products/lookup", productsController.LookupProduct)

	// Inventory CRUD endpoints
	router.GET("/api/inventory", inventoryController.ListItems)
	router.POST("/api/inventory", inventoryController.CreateItem)
	router.GET("/api/inventory/:id", inventoryController.GetItem)
	router.PATCH("/api/inventory/:id", inventoryController.UpdateItem)
	router.DELETE("/api/inventory/:id", inventoryController.DeleteItem)
	router.GET("/api/inventory/:id/history", inventoryController.GetItemHistory)

	// Bulk ingestion endpoints
	if cfg.Extractor != nil && cfg.ReviewStore != nil && cfg.CommitService != nil {
		bulkController := NewBulkController(cfg.Extractor, cfg.ReviewStore, cfg.CommitService, cfg.TaskClient)
		router.POST("/api/inventory/parse", bulkController.ParseText)
		router.POST("/api/inventory/batch", bulkController.CommitBatch)
		router.GET("/api/inventory/review/:token", bulkController.GetSession)
		router.DELETE("/api/inventory/review/:token", bulkController.AbandonSession)
		router.POST("/api/inventory/review/:token/approve", bulkController.ApproveCurrent)
		router.POST("/api/inventory/review/:token/reject", bulkController.RejectCurrent)
		router.POST("/api/inventory/review/:token/edit", bulkController.EditCurrent)
		router.POST("/api/inventory/review/:token/commit", bulkController.CommitSession)
	}

	// Shelf-life estimation endpoint
	if cfg.Estimator != nil {
		estimateController := NewEstimateController(cfg.Estimator)
		router.POST("/api/estimate", estimateController.Estimate)
	}

	return router
}
