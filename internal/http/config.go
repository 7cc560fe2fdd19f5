package http

import (
	"github.com/mrlokans/pantry/internal/auth"
	"github.com/mrlokans/pantry/internal/catalog"
	"github.com/mrlokans/pantry/internal/config"
	"github.com/mrlokans/pantry/internal/database"
	"github.com/mrlokans/pantry/internal/estimation"
	"github.com/mrlokans/pantry/internal/extraction"
	"github.com/mrlokans/pantry/internal/review"
	"github.com/mrlokans/pantry/internal/services"
	"github.com/mrlokans/pantry/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database       *database.Database
	LocationStore  LocationStore
	ProductStore   ProductStore
	InventoryStore InventoryStore

	// Bulk ingestion pipeline
	Extractor     *extraction.Service
	ReviewStore   *review.SessionStore
	CommitService *services.CommitService

	// Shelf-life estimation
	Estimator *estimation.Estimator

	// Barcode lookups against the external product catalog
	CatalogClient *catalog.OpenFoodFactsClient

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	AuthConfig     config.Auth
	CSRFSecret     []byte
	SecureCookies  bool

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Application info
	Version string
}
