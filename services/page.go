package services

import (
	"context"
	"fmt"

	"product-reviews/models"
	"product-reviews/utils"
)

// ProductSource loads products; GetProduct returns models.ErrProductNotFound on a miss
type ProductSource interface {
	GetProduct(ctx context.Context, category, slug string) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
}

// PageService assembles product review sessions from a ProductSource
type PageService struct {
	source    ProductSource
	ratings   *RatingService
	summaries *SummaryService
	logger    *utils.Logger
}

// NewPageService creates a new PageService. A nil summaries service makes
// every session show the fallback summary.
func NewPageService(source ProductSource, ratings *RatingService, summaries *SummaryService, logger *utils.Logger) *PageService {
	if summaries == nil {
		summaries = NewSummaryService(nil, 0, logger)
	}
	return &PageService{source: source, ratings: ratings, summaries: summaries, logger: logger}
}

// Catalog returns the overview rows for every product
func (s *PageService) Catalog(ctx context.Context) ([]models.ProductOverview, error) {
	products, err := s.source.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return s.ratings.Overview(products), nil
}

// Open loads a product and starts its viewing session. The summary is
// requested in the background; counts, average and projections are
// available immediately.
func (s *PageService) Open(ctx context.Context, category, slug string) (*Session, error) {
	product, err := s.source.GetProduct(ctx, category, slug)
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", category, slug, err)
	}

	filter, err := NewFilterStore()
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Opened %s/%s with %d reviews", category, slug, len(product.Reviews))
	return &Session{
		Product:   product,
		Ratings:   s.ratings.Summarize(product),
		Filter:    filter,
		Summary:   s.summaries.Start(ctx, product),
		summaries: s.summaries,
	}, nil
}

// Session is one product's viewing context: read-only product data, its
// aggregates, a mutable filter and a pending summary
type Session struct {
	Product *models.Product
	Ratings *models.RatingSummary
	Filter  *FilterStore
	Summary <-chan models.Summary

	summaries *SummaryService
}

// View projects the product's reviews under the current filter selection
func (s *Session) View() ReviewView {
	return Project(s.Product.Reviews, s.Filter.Selection())
}

// Page builds a printable page; summary may be nil while it is pending
func (s *Session) Page(summary *models.Summary) *ProductPage {
	return &ProductPage{
		Product: s.Product,
		Ratings: s.Ratings,
		View:    s.View(),
		Summary: summary,
	}
}

// SummaryService exposes the service backing this session
func (s *Session) SummaryService() *SummaryService {
	return s.summaries
}
