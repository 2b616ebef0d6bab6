package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sabsesasta/price-service/internal/comparison"
	"github.com/sabsesasta/price-service/internal/database"
)

var (
	costsList   string
	costsUser   string
	costsOutput string
	costsPretty bool
)

// costsCmd represents the costs command
var costsCmd = &cobra.Command{
	Use:   "costs",
	Short: "Compare a stored shopping list against the database listings",
	Example: `  price-service costs --list 3f1a2b4c-5d6e-4f70-8192-a3b4c5d6e7f8 --user u1
  price-service costs --list 3f1a2b4c-5d6e-4f70-8192-a3b4c5d6e7f8 --user u1 --output table`,
	RunE: runCosts,
}

func init() {
	rootCmd.AddCommand(costsCmd)

	costsCmd.Flags().StringVar(&costsList, "list", "", "Shopping list ID (required)")
	costsCmd.Flags().StringVar(&costsUser, "user", "", "Owner of the list (required)")
	costsCmd.Flags().StringVar(&costsOutput, "output", "json", "Output format: json or table")
	costsCmd.Flags().BoolVar(&costsPretty, "pretty", false, "Indent JSON output")
	costsCmd.MarkFlagRequired("list")
	costsCmd.MarkFlagRequired("user")
}

func runCosts(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo := database.NewRepository(database.Pool())

	items, err := repo.ListItems(ctx, costsList, costsUser)
	if err != nil {
		return fmt.Errorf("failed to load shopping list: %w", err)
	}

	var snapshot []comparison.VendorListing
	if len(items) > 0 {
		if snapshot, err = repo.Listings(ctx); err != nil {
			return fmt.Errorf("failed to load listings: %w", err)
		}
	}

	result := comparison.NewComparer(nil).Run(ctx, items, snapshot)
	return writeResult(cmd.OutOrStdout(), result, costsOutput, costsPretty)
}
