// Package catalog loads listing snapshots and shopping lists from files or
// http(s) feeds: delimited text, Excel workbooks, JSON, YAML and ZIP
// archives of those.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sabsesasta/price-service/internal/charset"
	"github.com/sabsesasta/price-service/internal/comparison"
)

// Format identifies a catalog file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatZIP  Format = "zip"
)

// Options controls parsing. Zero values mean auto-detect.
type Options struct {
	Format    Format           // Overrides extension-based detection
	Encoding  charset.Encoding // Delimited files only
	Delimiter rune             // Delimited files only
	Sheet     string           // Workbook sheet, first sheet when empty
	Fetcher   *Fetcher         // Remote feeds, a shared default when nil
}

func (o Options) fetcher() *Fetcher {
	if o.Fetcher != nil {
		return o.Fetcher
	}
	return defaultFetcher
}

// ParseResult holds the raw records of a file and any per-row problems.
type ParseResult struct {
	Records   []comparison.Record
	TotalRows int
	Warnings  []string
}

// DetectFormat infers the format from a file name
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".zip":
		return FormatZIP, nil
	default:
		return "", fmt.Errorf("unsupported catalog file %q", path)
	}
}

// Parse reads raw records from content in the given format.
// collection names the top-level key consulted in JSON and YAML documents.
func Parse(content []byte, format Format, opts Options, collection string) (*ParseResult, error) {
	var (
		result *ParseResult
		err    error
	)
	switch format {
	case FormatCSV:
		result, err = parseDelimited(content, opts)
	case FormatTSV:
		if opts.Delimiter == 0 {
			opts.Delimiter = '\t'
		}
		result, err = parseDelimited(content, opts)
	case FormatXLSX:
		result, err = parseWorkbook(content, opts)
	case FormatJSON:
		result, err = parseJSON(content, collection)
	case FormatYAML:
		result, err = parseYAML(content, collection)
	case FormatZIP:
		// Entries are already normalized.
		return parseArchive(content, opts, collection)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	if err != nil {
		return nil, err
	}

	normalizePrices(result.Records)
	return result, nil
}

// ParseFile reads raw records from a local file or an http(s) URL.
func ParseFile(ctx context.Context, path string, opts Options, collection string) (*ParseResult, error) {
	name := path
	if IsRemote(path) {
		u, err := url.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog URL %q: %w", path, err)
		}
		name = u.Path
	}

	format := opts.Format
	if format == "" {
		var err error
		if format, err = DetectFormat(name); err != nil {
			return nil, err
		}
	}

	var (
		content []byte
		err     error
	)
	if IsRemote(path) {
		content, err = opts.fetcher().Fetch(ctx, path)
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	result, err := Parse(content, format, opts, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for _, w := range result.Warnings {
		log.Warn().Str("file", path).Msg(w)
	}
	log.Debug().
		Str("file", path).
		Str("format", string(format)).
		Int("total_rows", result.TotalRows).
		Int("records", len(result.Records)).
		Msg("Parsed catalog file")

	return result, nil
}

// LoadListings reads a listing snapshot from a file or URL.
func LoadListings(ctx context.Context, path string, opts Options) ([]comparison.VendorListing, error) {
	result, err := ParseFile(ctx, path, opts, "listings")
	if err != nil {
		return nil, err
	}
	return comparison.ListingsFromRecords(result.Records), nil
}

// LoadItems reads a shopping list from a file or URL.
func LoadItems(ctx context.Context, path string, opts Options) ([]comparison.RequestedItem, error) {
	result, err := ParseFile(ctx, path, opts, "items")
	if err != nil {
		return nil, err
	}
	return comparison.ItemsFromRecords(result.Records), nil
}

// parseArchive parses every catalog file of a ZIP archive and concatenates
// the records in archive order.
func parseArchive(content []byte, opts Options, collection string) (*ParseResult, error) {
	entries, err := ExpandArchive(content, DefaultArchiveOptions())
	if err != nil {
		return nil, err
	}

	combined := &ParseResult{Records: []comparison.Record{}}
	for _, entry := range entries {
		entryOpts := opts
		entryOpts.Format = ""
		result, err := Parse(entry.Content, entry.Format, entryOpts, collection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name, err)
		}
		combined.Records = append(combined.Records, result.Records...)
		combined.TotalRows += result.TotalRows
		for _, w := range result.Warnings {
			combined.Warnings = append(combined.Warnings, entry.Name+": "+w)
		}
	}
	return combined, nil
}

// normalizePrices replaces locale-formatted price strings with numbers.
// Unparseable strings are left for the engine to reject.
func normalizePrices(records []comparison.Record) {
	fields := comparison.PriceFieldNames()
	for _, rec := range records {
		for _, f := range fields {
			s, ok := rec[f].(string)
			if !ok {
				continue
			}
			if v, err := ParsePrice(s); err == nil {
				rec[f] = v
			}
		}
	}
}

// headerKey converts a column header to the snake_case field name used by
// the alias chains: "Vendor Name", "vendorName" and "VENDOR_NAME" all
// become "vendor_name".
func headerKey(header string) string {
	header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))

	var b strings.Builder
	var prev rune
	for i, r := range header {
		switch {
		case r == ' ' || r == '-' || r == '.' || r == '_':
			r = '_'
			if prev == '_' || i == 0 {
				continue
			}
		case isUpper(r) && (isLower(prev) || isDigit(prev)):
			b.WriteRune('_')
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.Trim(strings.ToLower(b.String()), "_")
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// rowRecord builds a record from a header and a row of cells. Empty cells
// are left out so alias chains fall through.
func rowRecord(keys []string, cells []string) comparison.Record {
	rec := make(comparison.Record, len(keys))
	for i, key := range keys {
		if key == "" || i >= len(cells) {
			continue
		}
		if v := strings.TrimSpace(cells[i]); v != "" {
			rec[key] = v
		}
	}
	return rec
}

func isEmptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
