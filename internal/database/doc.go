// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, location seeding
//	├── locations/       # Storage location lookups
//	├── products/        # Product catalog and barcode links
//	└── inventory/       # Inventory items and their change history
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./pantry.db")
//
//	// Create domain-specific repositories
//	locationRepo := locations.NewRepository(db.DB)
//	productRepo := products.NewRepository(db.DB)
//	inventoryRepo := inventory.NewRepository(db.DB)
//
//	// Use repositories
//	location, err := locationRepo.GetByName("fridge")
//	items, err := inventoryRepo.List(userID, location.ID)
//
// # Conventions
//
// Single-row lookups return (nil, nil) when no row matches, so callers
// distinguish "absent" from a real database error without comparing
// against gorm.ErrRecordNotFound. Every inventory mutation records an
// event row in the same transaction.
//
// # Adding a New Domain
//
// To add a new domain:
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Register new entities in database.go's AutoMigrate call
package database
