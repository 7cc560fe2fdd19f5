// Package locations provides database operations for storage locations.
// Locations are household-wide and seeded at startup; the repository is
// read-mostly.
package locations

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/pantry/internal/entities"
)

// Repository handles all location database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new locations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAll returns every location in display order.
func (r *Repository) GetAll() ([]entities.Location, error) {
	var locations []entities.Location
	err := r.db.Order("display_order ASC").Find(&locations).Error
	return locations, err
}

// GetByID retrieves a location by ID. Returns (nil, nil) when absent.
func (r *Repository) GetByID(id uint) (*entities.Location, error) {
	var location entities.Location
	err := r.db.First(&location, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}

// GetByName retrieves a location by its lowercase name. Returns (nil, nil)
// when absent.
func (r *Repository) GetByName(name string) (*entities.Location, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	var location entities.Location
	err := r.db.Where("name = ?", name).First(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}
