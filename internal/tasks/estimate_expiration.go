package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/pantry/internal/entities"
	"github.com/mrlokans/pantry/internal/estimation"
)

// ItemStore provides the inventory access needed for background estimation.
type ItemStore interface {
	GetByID(userID, id uint) (*entities.InventoryItem, error)
	ListMissingExpiration(limit int) ([]entities.InventoryItem, error)
	SetExpirationDate(id uint, date string) error
}

// ExpirationEstimator produces shelf-life estimates for items.
type ExpirationEstimator interface {
	Estimate(ctx context.Context, req estimation.Request) (*estimation.Estimate, error)
}

// EstimateExpirationTask estimates the expiration date for a single item
// that was added without one. No retries: a failed estimate waits for the
// next scheduled sweep instead of burning rate limit budget.
type EstimateExpirationTask struct {
	UserID uint `json:"user_id"`
	ItemID uint `json:"item_id"`
}

func (t EstimateExpirationTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "estimate_expiration",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EstimateExpirationProcessor creates a processor for single-item estimation.
func EstimateExpirationProcessor(store ItemStore, estimator ExpirationEstimator) backlite.QueueProcessor[EstimateExpirationTask] {
	return func(ctx context.Context, task EstimateExpirationTask) error {
		item, err := store.GetByID(task.UserID, task.ItemID)
		if err != nil {
			return fmt.Errorf("get item %d: %w", task.ItemID, err)
		}
		if item == nil || item.ExpirationDate != "" {
			// Deleted or already dated; nothing to do.
			return nil
		}

		estimate, err := estimateItem(ctx, estimator, item)
		if err != nil {
			return fmt.Errorf("estimate item %d: %w", task.ItemID, err)
		}

		if err := store.SetExpirationDate(item.ID, estimate.ExpirationDate); err != nil {
			return fmt.Errorf("save expiration for item %d: %w", task.ItemID, err)
		}

		log.Printf("[TASK] Estimated expiration %s (%s confidence) for item %d",
			estimate.ExpirationDate, estimate.ConfidenceLevel, item.ID)
		return nil
	}
}

func NewEstimateExpirationQueue(store ItemStore, estimator ExpirationEstimator) backlite.Queue {
	return backlite.NewQueue(EstimateExpirationProcessor(store, estimator))
}

// EstimatePendingTask sweeps all items still missing an expiration date.
type EstimatePendingTask struct{}

func (t EstimatePendingTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "estimate_pending",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func EstimatePendingProcessor(store ItemStore, estimator ExpirationEstimator) backlite.QueueProcessor[EstimatePendingTask] {
	return func(ctx context.Context, task EstimatePendingTask) error {
		items, err := store.ListMissingExpiration(0) // 0 = no limit
		if err != nil {
			return fmt.Errorf("list items without expiration: %w", err)
		}

		var estimated, failed int
		for i := range items {
			select {
			case <-ctx.Done():
				log.Printf("[TASK] Context cancelled, estimated %d items, %d failed", estimated, failed)
				return ctx.Err()
			default:
			}

			estimate, err := estimateItem(ctx, estimator, &items[i])
			if err != nil {
				failed++
				continue
			}

			if err := store.SetExpirationDate(items[i].ID, estimate.ExpirationDate); err != nil {
				failed++
				continue
			}
			estimated++
		}

		log.Printf("[TASK] Estimated %d items, %d failed out of %d total", estimated, failed, len(items))
		return nil
	}
}

func NewEstimatePendingQueue(store ItemStore, estimator ExpirationEstimator) backlite.Queue {
	return backlite.NewQueue(EstimatePendingProcessor(store, estimator))
}

func estimateItem(ctx context.Context, estimator ExpirationEstimator, item *entities.InventoryItem) (*estimation.Estimate, error) {
	req := estimation.Request{
		LocationName: item.Location.Name,
		OpenedStatus: item.OpenedStatus,
	}
	if item.Product != nil {
		req.ProductName = item.Product.Name
		req.Category = item.Product.Category
	}
	if req.ProductName == "" {
		return nil, fmt.Errorf("item %d has no product name", item.ID)
	}

	return estimator.Estimate(ctx, req)
}
