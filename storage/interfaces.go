package storage

import (
	"context"

	"product-reviews/models"
)

// ProductRepository loads products and their reviews.
// GetProduct returns models.ErrProductNotFound when no product has the slug,
// or when the slug exists under a different category.
type ProductRepository interface {
	GetProduct(ctx context.Context, category, slug string) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	Close() error
}

// ProductWriter persists a product together with its full review list
type ProductWriter interface {
	SaveProduct(ctx context.Context, product *models.Product) error
}

// Store is a repository that also accepts writes
type Store interface {
	ProductRepository
	ProductWriter
}
