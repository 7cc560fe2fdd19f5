package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/pantry/internal/config"
	"github.com/mrlokans/pantry/internal/database"
	"github.com/mrlokans/pantry/internal/database/inventory"
	"github.com/mrlokans/pantry/internal/database/locations"
	"github.com/mrlokans/pantry/internal/database/products"
	"github.com/mrlokans/pantry/internal/extraction"
	"github.com/mrlokans/pantry/internal/services"
)

// BulkImportCommand parses a free-text shopping list or receipt file and
// writes the extracted items straight to the inventory, skipping the
// interactive review flow.
type BulkImportCommand struct {
	FilePath     string
	DatabasePath string
	Verbose      bool
	DryRun       bool
}

func NewBulkImportCommand() *BulkImportCommand {
	return &BulkImportCommand{}
}

func (cmd *BulkImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("bulk-import", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to a text file with the shopping list or receipt (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s bulk-import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Parse a free-text file into inventory items and save them.\n")
		fmt.Fprintf(os.Stderr, "Requires ANTHROPIC_API_KEY to be set.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Preview what a receipt would add:\n")
		fmt.Fprintf(os.Stderr, "  %s bulk-import -file receipt.txt -dry-run -verbose\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Import a shopping list:\n")
		fmt.Fprintf(os.Stderr, "  %s bulk-import -file groceries.txt\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *BulkImportCommand) Run() error {
	fmt.Println("Bulk Import")
	fmt.Println("===========")

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	data, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return fmt.Errorf("input file is empty")
	}

	fmt.Printf("File: %s\n", cmd.FilePath)
	fmt.Println("\nParsing text...")

	cfg := config.NewConfig()
	client := extraction.NewClient(cfg.Extraction)
	limiter := extraction.NewRateLimiter(cfg.Extraction.RateWindow, cfg.Extraction.RateMaxReqs)
	extractor := extraction.NewService(client, limiter)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	items, err := extractor.Parse(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to parse text: %w", err)
	}
	if len(items) == 0 {
		fmt.Println("No inventory items found in the text")
		return nil
	}

	fmt.Printf("Found %d items\n", len(items))

	if cmd.Verbose || cmd.DryRun {
		fmt.Println("\n=== Items Found ===")
		for i, item := range items {
			expiry := item.ExpirationDate
			if expiry == "" {
				expiry = "(no expiry)"
			}
			fmt.Printf("%d. %s x%.2f %s in %s %s\n",
				i+1, item.ProductName, item.Quantity, item.QuantityType, item.LocationName, expiry)
		}
	}

	if cmd.DryRun {
		fmt.Println("\nDry run complete. Use without -dry-run to import.")
		return nil
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	fmt.Printf("\nSaving to database: %s\n", absDBPath)

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	committer := services.NewCommitService(
		products.NewRepository(db.DB),
		locations.NewRepository(db.DB),
		inventory.NewRepository(db.DB),
	)

	created, err := committer.Commit(ctx, 0, items)
	if err != nil {
		return fmt.Errorf("failed to save items: %w", err)
	}

	fmt.Printf("\nImported %d items\n", len(created))
	fmt.Println("\nImport complete!")
	return nil
}
