package extraction

import "fmt"

// InventoryPrompt builds the instruction sent to the model for a single
// free-text input. The prompt pins the output contract so the response can
// be scraped deterministically.
func InventoryPrompt(text string) string {
	return fmt.Sprintf(`You are a kitchen inventory assistant. Parse the following text input and extract all inventory items mentioned. For each item, extract as much information as possible.

Input text: %q

For each item you identify, extract:
1. productName (required) - The name of the product/item
2. quantity (number, default: 1) - The quantity mentioned
3. quantityType (one of: "units", "volume", "weight", "percentage") - Infer from context:
   - "units" for discrete items (apples, cans, boxes)
   - "volume" for liquids (gallons, liters, cups, ml)
   - "weight" for items by mass (pounds, grams, kg)
   - "percentage" for partial containers
4. locationName (string) - Infer from context or use "pantry" as default:
   - Look for keywords: "frozen", "freezer" -> "freezer"
   - "fridge", "refrigerator" -> "fridge"
   - "pantry", "cabinet", "shelf" -> "pantry"
   - Default to "pantry" if unclear
5. expirationDate (optional, YYYY-MM-DD format) - Only include if explicitly mentioned
6. openedStatus (boolean, default: false) - Set to true if item is mentioned as "opened", "open", or similar

Use context clues:
- "2 apples" -> quantity: 2, quantityType: "units", productName: "apple"
- "1 gallon of milk" -> quantity: 1, quantityType: "volume", productName: "milk"
- "frozen peas" -> locationName: "freezer", productName: "peas"
- "opened jar of pickles" -> openedStatus: true, productName: "pickles"

Return ONLY a valid JSON array of items in this exact format:
[
  {
    "productName": "string",
    "quantity": number,
    "quantityType": "units" | "volume" | "weight" | "percentage",
    "locationName": "string",
    "expirationDate": "YYYY-MM-DD" (optional),
    "openedStatus": boolean
  }
]

If no items can be identified, return an empty array: []

Respond ONLY with valid JSON, no additional text or explanation.`, text)
}
