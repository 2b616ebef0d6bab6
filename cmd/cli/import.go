package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sabsesasta/price-service/internal/catalog"
	"github.com/sabsesasta/price-service/internal/database"
)

var (
	importListings []string
	importItems    string
	importUser     string
	importName     string
	importEncoding string
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load vendor catalogs and shopping lists from files into the database",
	Long: `Upsert vendors, products and listings from catalog files. With --items a shopping
list is also created for --user and its ID is printed.`,
	Example: `  price-service import --listings feed.csv
  price-service import --listings a.xlsx --listings b.json --encoding windows-1250
  price-service import --items list.yaml --user u1 --name "Weekly"`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVar(&importListings, "listings", nil, "Vendor catalog file (repeatable)")
	importCmd.Flags().StringVar(&importItems, "items", "", "Shopping list file to store")
	importCmd.Flags().StringVar(&importUser, "user", "", "Owner of the imported shopping list")
	importCmd.Flags().StringVar(&importName, "name", "Imported list", "Name of the imported shopping list")
	importCmd.Flags().StringVar(&importEncoding, "encoding", "auto", "Encoding of delimited files")
}

func runImport(cmd *cobra.Command, args []string) error {
	if len(importListings) == 0 && importItems == "" {
		return fmt.Errorf("nothing to import: pass --listings and/or --items")
	}
	if importItems != "" && importUser == "" {
		return fmt.Errorf("--user is required with --items")
	}

	opts, err := catalogOptions(importEncoding)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	repo := database.NewRepository(database.Pool())
	out := cmd.OutOrStdout()

	for _, path := range importListings {
		listings, err := catalog.LoadListings(ctx, path, opts)
		if err != nil {
			return fmt.Errorf("failed to load listings: %w", err)
		}
		n, err := repo.ImportListings(ctx, listings)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}
		logger.Info().Str("file", path).Int("listings", n).Msg("Imported listings")
		fmt.Fprintf(out, "Imported %d listings from %s\n", n, path)
	}

	if importItems != "" {
		items, err := catalog.LoadItems(ctx, importItems, opts)
		if err != nil {
			return fmt.Errorf("failed to load shopping list: %w", err)
		}

		lines := make([]database.ShoppingListItem, 0, len(items))
		for _, item := range items {
			lines = append(lines, database.ShoppingListItem{
				ProductID:  item.ProductID,
				CustomName: item.ProductName,
				Quantity:   item.Quantity,
			})
		}

		list, err := repo.CreateShoppingList(ctx, importUser, importName, lines)
		if err != nil {
			return fmt.Errorf("failed to store shopping list: %w", err)
		}
		fmt.Fprintf(out, "Created shopping list %s with %d items\n", list.ID, len(lines))
	}

	return nil
}
