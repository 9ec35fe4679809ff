package catalog

// Package catalog provides catalog seed file parsing.

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML document used to bootstrap an in-memory catalog.
type SeedFile struct {
	Products  []Record          `yaml:"products"`
	Inventory []InventoryRecord `yaml:"inventory"`
}

// InventoryRecord is a warehouse stock line as stored in a seed file.
type InventoryRecord struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name" validate:"required"`
	Size          string  `json:"size" yaml:"size" validate:"required"`
	CardboardType string  `json:"cardboard_type" yaml:"cardboard_type"`
	Brand         string  `json:"brand" yaml:"brand"`
	Color         string  `json:"color" yaml:"color"`
	Quantity      int     `json:"quantity" yaml:"quantity" validate:"gte=0"`
	Price         float64 `json:"price" yaml:"price" validate:"gte=0"`
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(content []byte) (*SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(content, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &seed, nil
}

func (p *Parser) ParseFromString(content string) (*SeedFile, error) {
	return p.Parse([]byte(content))
}

func (p *Parser) ParseFile(path string) (*SeedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog seed: %w", err)
	}
	return p.Parse(content)
}
