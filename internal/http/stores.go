package http

import (
	"time"

	"github.com/mrlokans/pantry/internal/entities"
)

// This file consolidates the store interface definitions used by HTTP
// controllers. Each controller depends only on the methods it uses.

// LocationStore provides read access to storage locations.
type LocationStore interface {
	GetAll() ([]entities.Location, error)
	GetByID(id uint) (*entities.Location, error)
	GetByName(name string) (*entities.Location, error)
}

// ProductStore provides product catalog and barcode operations.
type ProductStore interface {
	GetAll() ([]entities.Product, error)
	GetByID(id uint) (*entities.Product, error)
	GetByName(name string) (*entities.Product, error)
	Create(name, category, imageURL string) (*entities.Product, error)
	GetByBarcode(barcode string) (*entities.Product, error)
	LinkBarcode(barcode string, productID uint) error
}

// InventoryStore provides inventory item CRUD and history operations.
type InventoryStore interface {
	List(userID, locationID uint) ([]entities.InventoryItem, error)
	GetByID(userID, id uint) (*entities.InventoryItem, error)
	Create(item *entities.InventoryItem) error
	Update(old, updated *entities.InventoryItem, changedFields []string) error
	Delete(userID, id uint) error
	ListEvents(itemID uint) ([]entities.InventoryEvent, error)
	DeleteOldEvents(retention time.Duration) (int64, error)
}
