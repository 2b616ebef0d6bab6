package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sabsesasta/price-service/internal/schema"
)

var schemaOut string

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print or write the JSON Schema of the comparison wire types",
	Example: `  price-service schema
  price-service schema --out schemas`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if schemaOut != "" {
			written, err := schema.WriteAll(schemaOut)
			for _, path := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", path)
			}
			return err
		}

		for _, group := range schema.Groups() {
			data, err := schema.Marshal(schema.Generate(group))
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringVar(&schemaOut, "out", "", "Write schema files to this directory instead of stdout")
}
