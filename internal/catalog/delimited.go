package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sabsesasta/price-service/internal/charset"
	"github.com/sabsesasta/price-service/internal/comparison"
)

var candidateDelimiters = []rune{',', ';', '\t', '|'}

// DetectDelimiter picks the delimiter that occurs most consistently across
// the first non-empty lines.
func DetectDelimiter(content string) rune {
	sample := make([]string, 0, 5)
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			sample = append(sample, trimmed)
			if len(sample) == 5 {
				break
			}
		}
	}
	if len(sample) == 0 {
		return ','
	}

	best, bestScore := ',', 0.0
	for _, delim := range candidateDelimiters {
		sum := 0
		counts := make([]int, len(sample))
		for i, line := range sample {
			counts[i] = strings.Count(line, string(delim))
			sum += counts[i]
		}
		avg := float64(sum) / float64(len(sample))
		if avg == 0 {
			continue
		}

		variance := 0.0
		for _, c := range counts {
			d := float64(c) - avg
			variance += d * d
		}
		variance /= float64(len(sample))

		if score := avg / (1.0 + variance); score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

func parseDelimited(content []byte, opts Options) (*ParseResult, error) {
	text, err := charset.Decode(content, opts.Encoding)
	if err != nil {
		return nil, err
	}

	delim := opts.Delimiter
	if delim == 0 {
		sample := text
		if len(sample) > 2000 {
			sample = sample[:2000]
		}
		delim = DetectDelimiter(sample)
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	result := &ParseResult{Records: make([]comparison.Record, 0)}
	var keys []string
	line := 0
	for {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: %v", perr.Line, perr.Err))
				continue
			}
			return nil, fmt.Errorf("failed to read delimited content: %w", err)
		}

		if keys == nil {
			if isEmptyRow(cells) {
				continue
			}
			keys = make([]string, len(cells))
			for i, h := range cells {
				keys[i] = headerKey(h)
			}
			continue
		}

		result.TotalRows++
		if isEmptyRow(cells) {
			continue
		}
		if len(cells) > len(keys) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("line %d: %d cells for %d columns, extra cells ignored", line, len(cells), len(keys)))
		}
		result.Records = append(result.Records, rowRecord(keys, cells))
	}

	if keys == nil {
		return nil, errors.New("missing header row")
	}
	return result, nil
}
