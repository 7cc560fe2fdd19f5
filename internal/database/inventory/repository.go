// Package inventory provides database operations for inventory items and
// their change history. Every mutation writes an event row alongside the
// item so the history endpoint can replay what happened.
package inventory

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/pantry/internal/entities"
)

// Repository handles all inventory database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new inventory repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns a user's items, newest first, optionally filtered by
// location.
func (r *Repository) List(userID, locationID uint) ([]entities.InventoryItem, error) {
	var items []entities.InventoryItem
	query := r.db.Preload("Product").Preload("Location").
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if locationID > 0 {
		query = query.Where("location_id = ?", locationID)
	}
	err := query.Find(&items).Error
	return items, err
}

// GetByID retrieves one of the user's items. Returns (nil, nil) when absent.
func (r *Repository) GetByID(userID, id uint) (*entities.InventoryItem, error) {
	var item entities.InventoryItem
	err := r.db.Preload("Product").Preload("Location").
		Where("user_id = ?", userID).
		First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a single item and records an "added" event.
func (r *Repository) Create(item *entities.InventoryItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return recordEvent(tx, item.ID, entities.HistoryActionAdded, nil, item, nil)
	})
}

// CreateBatch inserts all items in one statement and records an "added"
// event per row. The whole batch succeeds or fails together.
func (r *Repository) CreateBatch(items []entities.InventoryItem) ([]entities.InventoryItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		for i := range items {
			if err := recordEvent(tx, items[i].ID, entities.HistoryActionAdded, nil, &items[i], nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Update saves the modified item and records an "updated" event carrying
// before and after snapshots.
func (r *Repository) Update(old, updated *entities.InventoryItem, changedFields []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(updated).Error; err != nil {
			return err
		}
		return recordEvent(tx, updated.ID, entities.HistoryActionUpdated, old, updated, changedFields)
	})
}

// Delete removes one of the user's items and records a "removed" event.
// Returns gorm.ErrRecordNotFound when the item does not exist.
func (r *Repository) Delete(userID, id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var item entities.InventoryItem
		if err := tx.Where("user_id = ?", userID).First(&item, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entities.InventoryItem{}, item.ID).Error; err != nil {
			return err
		}
		return recordEvent(tx, item.ID, entities.HistoryActionRemoved, &item, nil, nil)
	})
}

// ListMissingExpiration returns items that have no expiration date yet,
// oldest first, for background estimation.
func (r *Repository) ListMissingExpiration(limit int) ([]entities.InventoryItem, error) {
	var items []entities.InventoryItem
	query := r.db.Preload("Product").Preload("Location").
		Where("expiration_date = ?", "").
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&items).Error
	return items, err
}

// SetExpirationDate fills in an estimated expiration date and records the
// change in the item's history.
func (r *Repository) SetExpirationDate(id uint, date string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var item entities.InventoryItem
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}
		old := item
		item.ExpirationDate = date
		if err := tx.Model(&entities.InventoryItem{}).Where("id = ?", id).
			Update("expiration_date", date).Error; err != nil {
			return err
		}
		return recordEvent(tx, id, entities.HistoryActionUpdated, &old, &item, []string{"expiration_date"})
	})
}

// ListEvents returns the change history for an item, newest first.
func (r *Repository) ListEvents(itemID uint) ([]entities.InventoryEvent, error) {
	var events []entities.InventoryEvent
	err := r.db.Where("inventory_item_id = ?", itemID).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

// DeleteOldEvents removes events older than the retention period and
// returns the number of rows deleted.
func (r *Repository) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := r.db.Where("created_at < ?", cutoff).Delete(&entities.InventoryEvent{})
	return result.RowsAffected, result.Error
}

func recordEvent(tx *gorm.DB, itemID uint, action entities.HistoryAction, old, updated *entities.InventoryItem, changedFields []string) error {
	event := &entities.InventoryEvent{
		InventoryItemID: itemID,
		Action:          action,
		ChangedFields:   strings.Join(changedFields, ","),
	}
	if old != nil {
		event.OldData = snapshot(old)
	}
	if updated != nil {
		event.NewData = snapshot(updated)
	}
	return tx.Create(event).Error
}

// snapshot serializes the persisted fields of an item, skipping loaded
// relations.
func snapshot(item *entities.InventoryItem) string {
	data, err := json.Marshal(map[string]any{
		"id":              item.ID,
		"product_id":      item.ProductID,
		"location_id":     item.LocationID,
		"quantity":        item.Quantity,
		"quantity_type":   item.QuantityType,
		"added_date":      item.AddedDate,
		"expiration_date": item.ExpirationDate,
		"opened_status":   item.OpenedStatus,
	})
	if err != nil {
		return ""
	}
	return string(data)
}
