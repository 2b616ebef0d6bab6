// Schema Generator
//
// Generates JSON Schema files from the comparison wire types so other
// services can validate requests and responses.
//
// Usage:
//
//	go run ./cmd/schema-gen [-out schemas]
//
// Output:
//
//	schemas/comparison.json
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sabsesasta/price-service/internal/schema"
)

func main() {
	outputDir := flag.String("out", "schemas", "output directory")
	flag.Parse()

	written, err := schema.WriteAll(*outputDir)
	for _, path := range written {
		fmt.Printf("Generated %s\n", path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Schema generation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Schema generation complete!")
}
