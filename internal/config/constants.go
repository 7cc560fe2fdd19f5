package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./pantry.db"

	// DefaultExtractionBaseURL is the Anthropic Messages API endpoint
	DefaultExtractionBaseURL = "https://api.anthropic.com"

	// DefaultExtractionModel is the model used for text extraction and
	// expiration estimation
	DefaultExtractionModel = "claude-sonnet-4-5"

	// DefaultCatalogBaseURL is the Open Food Facts API endpoint used for
	// barcode lookups
	DefaultCatalogBaseURL = "https://world.openfoodfacts.org"
)
