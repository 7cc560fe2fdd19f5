package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/pantry/internal/entities"
)

func TestValidateItemsDefaults(t *testing.T) {
	items := ValidateItems([]any{
		map[string]any{"productName": "milk"},
	})

	require.Len(t, items, 1)
	assert.Equal(t, "milk", items[0].ProductName)
	assert.Equal(t, float64(1), items[0].Quantity)
	assert.Equal(t, entities.QuantityTypeUnits, items[0].QuantityType)
	assert.Equal(t, "pantry", items[0].LocationName)
	assert.Empty(t, items[0].ExpirationDate)
	assert.False(t, items[0].OpenedStatus)
}

func TestValidateItemsDropsUnusableCandidates(t *testing.T) {
	items := ValidateItems([]any{
		map[string]any{"quantity": 3},              // no name
		map[string]any{"productName": "   "},      // blank name
		map[string]any{"productName": 42},         // wrong type
		"not an object",                           // wrong shape
		map[string]any{"productName": " apples "}, // kept, trimmed
	})

	require.Len(t, items, 1)
	assert.Equal(t, "apples", items[0].ProductName)
}

func TestValidateItemsNormalization(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]any
		expected ParsedItem
	}{
		{
			name: "full item passes through",
			raw: map[string]any{
				"productName":    "milk",
				"quantity":       float64(2),
				"quantityType":   "volume",
				"locationName":   "Fridge",
				"expirationDate": "2025-06-15",
				"openedStatus":   true,
			},
			expected: ParsedItem{
				ProductName:    "milk",
				Quantity:       2,
				QuantityType:   entities.QuantityTypeVolume,
				LocationName:   "fridge",
				ExpirationDate: "2025-06-15",
				OpenedStatus:   true,
			},
		},
		{
			name: "zero quantity falls back to one",
			raw:  map[string]any{"productName": "eggs", "quantity": float64(0)},
			expected: ParsedItem{
				ProductName: "eggs", Quantity: 1,
				QuantityType: entities.QuantityTypeUnits, LocationName: "pantry",
			},
		},
		{
			name: "negative quantity falls back to one",
			raw:  map[string]any{"productName": "eggs", "quantity": float64(-3)},
			expected: ParsedItem{
				ProductName: "eggs", Quantity: 1,
				QuantityType: entities.QuantityTypeUnits, LocationName: "pantry",
			},
		},
		{
			name: "non-numeric quantity falls back to one",
			raw:  map[string]any{"productName": "eggs", "quantity": "a dozen"},
			expected: ParsedItem{
				ProductName: "eggs", Quantity: 1,
				QuantityType: entities.QuantityTypeUnits, LocationName: "pantry",
			},
		},
		{
			name: "unknown quantity type falls back to units",
			raw:  map[string]any{"productName": "rice", "quantityType": "sacks"},
			expected: ParsedItem{
				ProductName: "rice", Quantity: 1,
				QuantityType: entities.QuantityTypeUnits, LocationName: "pantry",
			},
		},
		{
			name: "location is lowercased and trimmed",
			raw:  map[string]any{"productName": "peas", "locationName": "  FREEZER  "},
			expected: ParsedItem{
				ProductName: "peas", Quantity: 1,
				QuantityType: entities.QuantityTypeUnits, LocationName: "freezer",
			},
		},
		{
			name: "malformed date is dropped",
			raw:  map[string]any{"productName": "ham", "expirationDate": "next week"},
			expected: ParsedItem{
				ProductName: "ham", Quantity: 1,
				QuantityType: entities.QuantityTypeUnits, LocationName: "pantry",
			},
		},
		{
			name: "date shape is accepted without calendar validation",
			raw:  map[string]any{"productName": "ham", "expirationDate": "2024-02-31"},
			expected: ParsedItem{
				ProductName: "ham", Quantity: 1,
				QuantityType: entities.QuantityTypeUnits, LocationName: "pantry",
				ExpirationDate: "2024-02-31",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := ValidateItems([]any{tt.raw})
			require.Len(t, items, 1)
			assert.Equal(t, tt.expected, items[0])
		})
	}
}

func TestValidateItemsShoppingList(t *testing.T) {
	// "2 apples, 1 gallon of milk, opened jar of pickles" as a model
	// would plausibly return it.
	items := ValidateItems([]any{
		map[string]any{"productName": "apples", "quantity": float64(2)},
		map[string]any{"productName": "milk", "quantity": float64(1), "quantityType": "volume", "locationName": "fridge"},
		map[string]any{"productName": "pickles", "openedStatus": true},
	})

	require.Len(t, items, 3)
	assert.Equal(t, float64(2), items[0].Quantity)
	assert.Equal(t, entities.QuantityTypeVolume, items[1].QuantityType)
	assert.Equal(t, "fridge", items[1].LocationName)
	assert.True(t, items[2].OpenedStatus)
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2025-01-31"))
	assert.True(t, ValidDate("2024-02-31"), "shape only, not calendar validity")
	assert.False(t, ValidDate("2025-1-31"))
	assert.False(t, ValidDate("31-01-2025"))
	assert.False(t, ValidDate("2025-01-31T00:00:00Z"))
	assert.False(t, ValidDate(""))
}
