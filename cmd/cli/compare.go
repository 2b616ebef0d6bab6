package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sabsesasta/price-service/internal/catalog"
	"github.com/sabsesasta/price-service/internal/charset"
	"github.com/sabsesasta/price-service/internal/comparison"
)

var (
	compareItems    string
	compareListings []string
	compareEncoding string
	compareOutput   string
	comparePretty   bool
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a shopping list file against vendor catalog files",
	Long: `Compare a shopping list against one or more vendor catalogs read from local files.
Catalogs are concatenated in flag order, which also decides vendor order and price ties.

Supported formats: csv, tsv, xlsx, json, yaml
Supported encodings: auto (default), utf-8, utf-16le, utf-16be, windows-1250, windows-1252, iso-8859-2`,
	Example: `  price-service compare --items list.yaml --listings catalog.xlsx
  price-service compare --items list.csv --listings a.csv --listings b.json --pretty
  price-service compare --items list.yaml --listings feed.csv --encoding windows-1250 --output table`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&compareItems, "items", "", "Shopping list file (required)")
	compareCmd.Flags().StringArrayVar(&compareListings, "listings", nil, "Vendor catalog file (repeatable)")
	compareCmd.Flags().StringVar(&compareEncoding, "encoding", "auto", "Encoding of delimited files")
	compareCmd.Flags().StringVar(&compareOutput, "output", "json", "Output format: json or table")
	compareCmd.Flags().BoolVar(&comparePretty, "pretty", false, "Indent JSON output")
	compareCmd.MarkFlagRequired("items")
}

func runCompare(cmd *cobra.Command, args []string) error {
	opts, err := catalogOptions(compareEncoding)
	if err != nil {
		return err
	}

	items, err := catalog.LoadItems(cmd.Context(), compareItems, opts)
	if err != nil {
		return fmt.Errorf("failed to load shopping list: %w", err)
	}

	var snapshot []comparison.VendorListing
	for _, path := range compareListings {
		listings, err := catalog.LoadListings(cmd.Context(), path, opts)
		if err != nil {
			return fmt.Errorf("failed to load listings: %w", err)
		}
		snapshot = append(snapshot, listings...)
	}

	logger.Debug().
		Int("items", len(items)).
		Int("listings", len(snapshot)).
		Msg("Comparing shopping list")

	result := comparison.NewComparer(nil).Run(cmd.Context(), items, snapshot)
	return writeResult(cmd.OutOrStdout(), result, compareOutput, comparePretty)
}

func catalogOptions(encoding string) (catalog.Options, error) {
	enc, err := charset.ParseEncoding(encoding)
	if err != nil {
		return catalog.Options{}, err
	}
	return catalog.Options{Encoding: enc}, nil
}

func writeResult(w io.Writer, result comparison.Result, output string, pretty bool) error {
	switch strings.ToLower(output) {
	case "json":
		encoder := json.NewEncoder(w)
		if pretty {
			encoder.SetIndent("", "  ")
		}
		return encoder.Encode(result)
	case "table":
		writeResultTable(w, result)
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (use 'json' or 'table')", output)
	}
}

func writeResultTable(w io.Writer, result comparison.Result) {
	if result.IsEmpty() {
		fmt.Fprintln(w, "No comparison data")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "Vendor\tTotal\tItems\tUnavailable\n")
	fmt.Fprintf(tw, "------\t-----\t-----\t-----------\n")
	for _, v := range result.VendorOptions {
		fmt.Fprintf(tw, "%s\t%.2f\t%d/%d\t%s\n",
			v.Vendor, v.TotalCost, v.AvailableItems, v.TotalItems, strings.Join(v.UnavailableItems, ", "))
	}
	tw.Flush()

	fmt.Fprintf(w, "\nCheapest mix: %.2f\n", result.MegaOption.TotalCost)
	tw = tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	for _, item := range result.MegaOption.Items {
		fmt.Fprintf(tw, "%s\t%d x %.2f\t%s\n", item.ProductName, item.Quantity, item.Price, item.Vendor)
	}
	tw.Flush()
}
