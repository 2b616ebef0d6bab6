package catalog

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sabsesasta/price-service/internal/comparison"
)

func parseWorkbook(content []byte, opts Options) (*ParseResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := selectSheet(f, opts.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheet, err)
	}

	result := &ParseResult{Records: make([]comparison.Record, 0)}
	var keys []string
	for i, cells := range rows {
		if keys == nil {
			if isEmptyRow(cells) {
				continue
			}
			keys = make([]string, len(cells))
			for j, h := range cells {
				keys[j] = headerKey(h)
			}
			continue
		}

		result.TotalRows++
		if isEmptyRow(cells) {
			continue
		}
		if len(cells) > len(keys) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("row %d: %d cells for %d columns, extra cells ignored", i+1, len(cells), len(keys)))
		}
		result.Records = append(result.Records, rowRecord(keys, cells))
	}

	if keys == nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("worksheet %q is empty", sheet))
	}
	return result, nil
}

func selectSheet(f *excelize.File, name string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if name == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found", name)
}
