// Package products provides database operations for the product catalog
// and its barcode links.
package products

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/pantry/internal/entities"
)

// Repository handles all product database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new products repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAll returns every product ordered by name.
func (r *Repository) GetAll() ([]entities.Product, error) {
	var products []entities.Product
	err := r.db.Order("name ASC").Find(&products).Error
	return products, err
}

// GetByID retrieves a product by ID. Returns (nil, nil) when absent.
func (r *Repository) GetByID(id uint) (*entities.Product, error) {
	var product entities.Product
	err := r.db.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByName retrieves the first product with an exact name match. Returns
// (nil, nil) when absent.
func (r *Repository) GetByName(name string) (*entities.Product, error) {
	var product entities.Product
	err := r.db.Where("name = ?", name).Order("id ASC").First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product. Duplicate names are allowed; callers that
// want reuse must look up by name first.
func (r *Repository) Create(name, category, imageURL string) (*entities.Product, error) {
	product := &entities.Product{
		Name:     name,
		Category: category,
		ImageURL: imageURL,
	}
	if err := r.db.Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// GetByBarcode resolves a barcode to its linked product. Returns (nil, nil)
// when the barcode is not linked.
func (r *Repository) GetByBarcode(barcode string) (*entities.Product, error) {
	var link entities.ProductBarcode
	err := r.db.Preload("Product").Where("barcode = ?", barcode).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link.Product, nil
}

// LinkBarcode associates a barcode with a product so future scans resolve
// locally.
func (r *Repository) LinkBarcode(barcode string, productID uint) error {
	link := &entities.ProductBarcode{
		Barcode:   barcode,
		ProductID: productID,
	}
	return r.db.Create(link).Error
}
