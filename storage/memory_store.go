package storage

import (
	"context"
	"sync"

	"product-reviews/models"
)

// MemoryStore is an in-process Store, used for YAML catalogs and tests
type MemoryStore struct {
	mu       sync.RWMutex
	order    []string
	products map[string]*models.Product
}

// NewMemoryStore creates a store seeded with products, in order
func NewMemoryStore(products ...*models.Product) *MemoryStore {
	s := &MemoryStore{products: make(map[string]*models.Product)}
	for _, p := range products {
		s.put(p)
	}
	return s
}

// SaveProduct inserts or replaces a product; a replaced product keeps its position
func (s *MemoryStore) SaveProduct(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(product)
	return nil
}

func (s *MemoryStore) put(product *models.Product) {
	cp := *product
	cp.Reviews = append([]models.Review(nil), product.Reviews...)
	if _, exists := s.products[cp.Slug]; !exists {
		s.order = append(s.order, cp.Slug)
	}
	s.products[cp.Slug] = &cp
}

// GetProduct returns a copy of the product with the given slug and category
func (s *MemoryStore) GetProduct(ctx context.Context, category, slug string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[slug]
	if !ok || p.Category != category {
		return nil, models.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

// ListProducts returns every product in insertion order
func (s *MemoryStore) ListProducts(ctx context.Context) ([]*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Product, 0, len(s.order))
	for _, slug := range s.order {
		cp := *s.products[slug]
		out = append(out, &cp)
	}
	return out, nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
