// Package services contains application services that coordinate multiple
// repositories. The commit service turns an approved batch of parsed items
// into inventory rows.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mrlokans/pantry/internal/apierror"
	"github.com/mrlokans/pantry/internal/entities"
	"github.com/mrlokans/pantry/internal/extraction"
)

// CommitService resolves product names against the catalog and writes the
// approved items as one batch insert.
type CommitService struct {
	products  ProductResolver
	locations LocationResolver
	inventory InventoryWriter

	now func() time.Time // injectable for tests
}

func NewCommitService(products ProductResolver, locations LocationResolver, inventory InventoryWriter) *CommitService {
	return &CommitService{
		products:  products,
		locations: locations,
		inventory: inventory,
		now:       time.Now,
	}
}

// Commit persists approved items for a user. Product names are resolved
// sequentially against a per-batch cache first, then the store; unknown
// names create new products. Duplicate names within the batch reuse the
// same product. The items land in a single batched insert, so either the
// whole batch commits or none of it does.
func (s *CommitService) Commit(ctx context.Context, userID uint, approved []extraction.ParsedItem) ([]entities.InventoryItem, error) {
	if len(approved) == 0 {
		return nil, apierror.Validation("no approved items to commit")
	}

	addedDate := s.now().Format("2006-01-02")
	productIDs := make(map[string]uint, len(approved))
	items := make([]entities.InventoryItem, 0, len(approved))

	// Resolution is sequential on purpose: later duplicates must see the
	// products created for earlier items.
	for _, item := range approved {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := strings.TrimSpace(item.ProductName)
		if name == "" {
			return nil, apierror.Validation("approved item has an empty product name")
		}

		productID, ok := productIDs[name]
		if !ok {
			id, err := s.resolveProduct(name)
			if err != nil {
				return nil, err
			}
			productID = id
			productIDs[name] = productID
		}

		location, err := s.locations.GetByName(item.LocationName)
		if err != nil {
			return nil, apierror.Store("resolve location", err)
		}
		if location == nil {
			return nil, apierror.Validation(fmt.Sprintf("unknown location: %s", item.LocationName))
		}

		pid := productID
		items = append(items, entities.InventoryItem{
			UserID:         userID,
			ProductID:      &pid,
			LocationID:     location.ID,
			Quantity:       item.Quantity,
			QuantityType:   item.QuantityType,
			AddedDate:      addedDate,
			ExpirationDate: item.ExpirationDate,
			OpenedStatus:   item.OpenedStatus,
		})
	}

	created, err := s.inventory.CreateBatch(items)
	if err != nil {
		return nil, apierror.Store("insert inventory items", err)
	}

	return created, nil
}

func (s *CommitService) resolveProduct(name string) (uint, error) {
	existing, err := s.products.GetByName(name)
	if err != nil {
		return 0, apierror.Store("look up product", err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	created, err := s.products.Create(name, "", "")
	if err != nil {
		return 0, apierror.Store("create product", err)
	}
	return created.ID, nil
}
