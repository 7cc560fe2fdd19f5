package services

import (
	"github.com/mrlokans/pantry/internal/entities"
)

// ProductResolver resolves and creates catalog products during a commit.
// GetByName returns (nil, nil) when no product matches.
type ProductResolver interface {
	GetByName(name string) (*entities.Product, error)
	Create(name, category, imageURL string) (*entities.Product, error)
}

// LocationResolver maps normalized location names to seeded locations.
// GetByName returns (nil, nil) when no location matches.
type LocationResolver interface {
	GetByName(name string) (*entities.Location, error)
}

// InventoryWriter persists a batch of items in a single insert.
type InventoryWriter interface {
	CreateBatch(items []entities.InventoryItem) ([]entities.InventoryItem, error)
}
