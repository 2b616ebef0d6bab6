package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sabsesasta/price-service/internal/comparison"
)

// parseJSON accepts a top-level array of objects or an object holding the
// array under collection.
func parseJSON(content []byte, collection string) (*ParseResult, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return documentRecords(doc, collection)
}

// parseYAML accepts the same shapes as parseJSON.
func parseYAML(content []byte, collection string) (*ParseResult, error) {
	var doc any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return documentRecords(doc, collection)
}

func documentRecords(doc any, collection string) (*ParseResult, error) {
	if obj, ok := doc.(map[string]any); ok {
		inner, found := obj[collection]
		if !found {
			return nil, fmt.Errorf("document has no %q array", collection)
		}
		doc = inner
	}

	if doc == nil {
		return &ParseResult{Records: make([]comparison.Record, 0)}, nil
	}
	entries, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array of objects, got %T", doc)
	}

	result := &ParseResult{
		Records:   make([]comparison.Record, 0, len(entries)),
		TotalRows: len(entries),
	}
	for i, e := range entries {
		obj, ok := e.(map[string]any)
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("entry %d: expected an object, got %T", i, e))
			continue
		}
		result.Records = append(result.Records, comparison.Record(obj))
	}
	return result, nil
}
