package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalogYAML []byte

// File is the on-disk YAML layout of a catalog
type File struct {
	Items   []Item   `yaml:"items"`
	Recipes []Recipe `yaml:"recipes"`
}

// Parse builds a validated catalog from YAML data
func Parse(data []byte) (*Catalog, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	cat, err := New(file.Items, file.Recipes)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return cat, nil
}

// LoadFile reads and parses a catalog YAML file
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in short-order catalog
func Default() *Catalog {
	cat, err := Parse(defaultCatalogYAML)
	if err != nil {
		// The embedded catalog is fixed at build time; failing to parse
		// it is a programming error, not a runtime condition.
		panic(fmt.Sprintf("embedded catalog invalid: %v", err))
	}
	return cat
}
