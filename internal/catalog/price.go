package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var currencySuffix = regexp.MustCompile(`(?i)\s*(KN|KUNA|HRK|EUR|USD|GBP)\s*$`)

// ParsePrice parses a price string as exported by vendor systems.
// Handles "12.99", "12,99", "1.299,00", "1,299.00" and "1 299,00 EUR".
func ParsePrice(value string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '€', '$', '£', ' ', '\u00a0':
			return -1
		}
		return r
	}, strings.TrimSpace(value))
	cleaned = strings.TrimSpace(currencySuffix.ReplaceAllString(cleaned, ""))
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric value in %q", value)
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")
	switch {
	case lastComma > lastDot:
		// European: comma is the decimal separator
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case lastDot > lastComma:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price format %q: %w", value, err)
	}
	return f, nil
}
