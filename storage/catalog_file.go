package storage

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"product-reviews/models"
)

//go:embed sample_catalog.yaml
var sampleCatalog []byte

type catalogFile struct {
	Products []catalogProduct `yaml:"products"`
}

type catalogProduct struct {
	Slug        string          `yaml:"slug"`
	Category    string          `yaml:"category"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Reviews     []catalogReview `yaml:"reviews"`
}

type catalogReview struct {
	ID       string            `yaml:"id,omitempty"`
	Stars    int               `yaml:"stars"`
	Author   string            `yaml:"author"`
	Body     string            `yaml:"body"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// LoadCatalog parses a YAML product catalog. Any review with stars outside
// 1..5 fails the whole load.
func LoadCatalog(r io.Reader) ([]*models.Product, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(file.Products))
	products := make([]*models.Product, 0, len(file.Products))
	for _, cp := range file.Products {
		if cp.Slug == "" || cp.Category == "" {
			return nil, fmt.Errorf("catalog product %q: slug and category are required", cp.Name)
		}
		if seen[cp.Slug] {
			return nil, fmt.Errorf("catalog product %q: duplicate slug", cp.Slug)
		}
		seen[cp.Slug] = true

		p := &models.Product{
			Slug:        cp.Slug,
			Category:    cp.Category,
			Name:        cp.Name,
			Description: cp.Description,
		}
		for i, cr := range cp.Reviews {
			id := cr.ID
			if id == "" {
				id = fmt.Sprintf("%s-%d", cp.Slug, i+1)
			}
			review, err := models.NewReview(id, cr.Stars, cr.Author, cr.Body, cr.Metadata)
			if err != nil {
				return nil, fmt.Errorf("catalog product %q review %d: %w", cp.Slug, i+1, err)
			}
			p.Reviews = append(p.Reviews, review)
		}
		products = append(products, p)
	}
	return products, nil
}

// LoadCatalogFile reads a YAML catalog from disk into a MemoryStore
func LoadCatalogFile(path string) (*MemoryStore, error) {
	// #nosec G304 -- path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	products, err := LoadCatalog(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewMemoryStore(products...), nil
}

// SampleStore returns a MemoryStore with the built-in sample catalog
func SampleStore() (*MemoryStore, error) {
	products, err := LoadCatalog(bytes.NewReader(sampleCatalog))
	if err != nil {
		return nil, fmt.Errorf("sample catalog: %w", err)
	}
	return NewMemoryStore(products...), nil
}
