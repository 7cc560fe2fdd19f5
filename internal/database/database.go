package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/pantry/internal/entities"
)

var defaultLocations = []entities.Location{
	{Name: "pantry", DisplayOrder: 1},
	{Name: "fridge", DisplayOrder: 2},
	{Name: "freezer", DisplayOrder: 3},
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.User{},
		&entities.Location{},
		&entities.Product{},
		&entities.ProductBarcode{},
		&entities.InventoryItem{},
		&entities.InventoryEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	// Seed default storage locations
	if err := database.seedLocations(); err != nil {
		return nil, fmt.Errorf("failed to seed locations: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedLocations() error {
	for _, location := range defaultLocations {
		var existing entities.Location
		result := d.DB.Where("name = ?", location.Name).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			if err := d.DB.Create(&location).Error; err != nil {
				return fmt.Errorf("failed to create location %s: %w", location.Name, err)
			}
			log.Printf("Created location: %s", location.Name)
		}
	}
	return nil
}
