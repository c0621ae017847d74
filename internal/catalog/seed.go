package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed seed.json
var seedJSON []byte

type seedFile struct {
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
}

// LoadSeed parses the embedded seed catalog.
func LoadSeed() ([]Product, []Category, error) {
	var seed seedFile
	if err := json.Unmarshal(seedJSON, &seed); err != nil {
		return nil, nil, fmt.Errorf("parse seed catalog: %w", err)
	}
	return seed.Products, seed.Categories, nil
}

// NewEmbeddedSource returns a MemorySource backed by the embedded seed.
func NewEmbeddedSource() (*MemorySource, error) {
	products, categories, err := LoadSeed()
	if err != nil {
		return nil, err
	}
	return NewMemorySource(products, categories), nil
}
