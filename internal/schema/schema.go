// Package schema generates JSON Schema documents from the HTTP wire types.
// Go is the source of truth for types shared with other services.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/sabsesasta/price-service/internal/comparison"
	"github.com/sabsesasta/price-service/internal/handlers"
)

// Group is a set of related types written to one schema file
type Group struct {
	Name   string
	Types  []any
	Output string
}

// Groups returns the schema groups published by the service.
func Groups() []Group {
	return []Group{
		{
			Name: "comparison",
			Types: []any{
				// Request types
				handlers.CompareRequest{},
				// Response types
				comparison.Result{},
				comparison.VendorResult{},
				comparison.VendorItem{},
				comparison.MegaOption{},
				comparison.MegaItem{},
				handlers.ErrorResponse{},
				handlers.HealthResponse{},
			},
			Output: "comparison.json",
		},
	}
}

// Generate creates a combined schema with every type of the group under $defs.
func Generate(group Group) map[string]any {
	reflector := &jsonschema.Reflector{}

	definitions := make(map[string]any)
	for _, t := range group.Types {
		s := reflector.Reflect(t)

		for name, def := range s.Definitions {
			definitions[name] = def
		}
	}

	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://price-service.local/schemas/%s.json", group.Name),
		"title":       fmt.Sprintf("%s API Types", capitalize(group.Name)),
		"description": fmt.Sprintf("JSON Schema for %s API types generated from Go structs", group.Name),
		"$defs":       definitions,
	}
}

// Marshal renders a schema as indented JSON with a trailing newline.
func Marshal(s map[string]any) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteAll writes every group into dir and returns the written paths.
func WriteAll(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for _, group := range Groups() {
		data, err := Marshal(Generate(group))
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, group.Output)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
