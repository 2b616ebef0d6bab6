package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sabsesasta/price-service/internal/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  `Create the vendor, product, listing and shopping list tables. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Migrate(cmd.Context(), database.Pool()); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info().Msg("Schema applied")
		fmt.Fprintln(cmd.OutOrStdout(), "Schema applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
