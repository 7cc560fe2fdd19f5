package entities

import (
	"time"
)

type QuantityType string

const (
	QuantityTypeUnits      QuantityType = "units"
	QuantityTypeVolume     QuantityType = "volume"
	QuantityTypeWeight     QuantityType = "weight"
	QuantityTypePercentage QuantityType = "percentage"
)

// IsValid reports whether the quantity type is one of the supported kinds.
func (qt QuantityType) IsValid() bool {
	switch qt {
	case QuantityTypeUnits, QuantityTypeVolume, QuantityTypeWeight, QuantityTypePercentage:
		return true
	}
	return false
}

type HistoryAction string

const (
	HistoryActionAdded   HistoryAction = "added"
	HistoryActionUpdated HistoryAction = "updated"
	HistoryActionRemoved HistoryAction = "removed"
)

type Location struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;size:50" json:"name"` // e.g., "pantry", "fridge", "freezer"
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

type Product struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"index;size:256" json:"name"`
	Category         string    `gorm:"size:100" json:"category,omitempty"`
	ImageURL         string    `gorm:"size:2048" json:"image_url,omitempty"`
	DefaultShelfLife int       `json:"default_shelf_life,omitempty"` // days, 0 means unknown
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProductBarcode links a scanned barcode to a catalog product so repeated
// scans skip the external lookup.
type ProductBarcode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Barcode   string    `gorm:"uniqueIndex;size:64" json:"barcode"`
	ProductID uint      `gorm:"index" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type InventoryItem struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	UserID     uint  `gorm:"index" json:"user_id"`
	ProductID  *uint `gorm:"index" json:"product_id,omitempty"`
	LocationID uint  `gorm:"index" json:"location_id"`

	Quantity     float64      `json:"quantity"`
	QuantityType QuantityType `gorm:"size:20;default:'units'" json:"quantity_type"`

	// Dates are stored as YYYY-MM-DD strings; only the shape is validated,
	// not the calendar.
	AddedDate      string `gorm:"size:10" json:"added_date"`
	ExpirationDate string `gorm:"size:10" json:"expiration_date,omitempty"`

	OpenedStatus bool `gorm:"default:false" json:"opened_status"`

	Product  *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Location Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	User     User     `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InventoryEvent is an audit record of a single change to an inventory item.
type InventoryEvent struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	InventoryItemID uint          `gorm:"index" json:"inventory_item_id"`
	Action          HistoryAction `gorm:"size:20" json:"action"`
	OldData         string        `gorm:"type:text" json:"old_data,omitempty"` // JSON snapshot
	NewData         string        `gorm:"type:text" json:"new_data,omitempty"` // JSON snapshot
	ChangedFields   string        `gorm:"size:512" json:"changed_fields,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

func (Location) TableName() string {
	return "locations"
}

func (Product) TableName() string {
	return "products"
}

func (ProductBarcode) TableName() string {
	return "product_barcodes"
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

func (InventoryEvent) TableName() string {
	return "inventory_events"
}
