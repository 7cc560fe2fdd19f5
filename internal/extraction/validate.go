package extraction

import (
	"regexp"
	"strings"

	"github.com/mrlokans/pantry/internal/entities"
)

const (
	DefaultQuantity     = 1
	DefaultLocationName = "pantry"
)

// Only the shape is checked; 2024-02-31 passes. Calendar validity is left
// to whoever consumes the date.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParsedItem is a single normalized item extracted from free text. It is
// the unit that flows through review and into the batch commit.
type ParsedItem struct {
	ProductName    string                `json:"productName"`
	Quantity       float64               `json:"quantity"`
	QuantityType   entities.QuantityType `json:"quantityType"`
	LocationName   string                `json:"locationName"`
	ExpirationDate string                `json:"expirationDate,omitempty"`
	OpenedStatus   bool                  `json:"openedStatus"`
}

// ValidDate reports whether s matches the YYYY-MM-DD shape.
func ValidDate(s string) bool {
	return datePattern.MatchString(s)
}

// ValidateItems filters and normalizes raw candidates decoded from the
// model reply. A candidate without a usable productName is dropped; every
// other field falls back to its default rather than failing the item.
func ValidateItems(candidates []any) []ParsedItem {
	items := make([]ParsedItem, 0, len(candidates))

	for _, candidate := range candidates {
		raw, ok := candidate.(map[string]any)
		if !ok {
			continue
		}

		name, _ := raw["productName"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		item := ParsedItem{
			ProductName:  name,
			Quantity:     DefaultQuantity,
			QuantityType: entities.QuantityTypeUnits,
			LocationName: DefaultLocationName,
		}

		if quantity, ok := raw["quantity"].(float64); ok && quantity > 0 {
			item.Quantity = quantity
		}

		if qt, ok := raw["quantityType"].(string); ok && entities.QuantityType(qt).IsValid() {
			item.QuantityType = entities.QuantityType(qt)
		}

		if location, ok := raw["locationName"].(string); ok {
			location = strings.ToLower(strings.TrimSpace(location))
			if location != "" {
				item.LocationName = location
			}
		}

		if opened, ok := raw["openedStatus"].(bool); ok {
			item.OpenedStatus = opened
		}

		if date, ok := raw["expirationDate"].(string); ok && ValidDate(date) {
			item.ExpirationDate = date
		}

		items = append(items, item)
	}

	return items
}
