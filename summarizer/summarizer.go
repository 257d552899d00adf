package summarizer

import (
	"context"
	"errors"
	"fmt"

	"product-reviews/models"
)

// ErrNoReviews is returned when a product has nothing to summarize
var ErrNoReviews = errors.New("product has no reviews to summarize")

// ProductSummarizer turns a product's reviews into a summary through a Provider
type ProductSummarizer struct {
	provider Provider
}

// NewProductSummarizer creates a ProductSummarizer backed by provider
func NewProductSummarizer(provider Provider) *ProductSummarizer {
	return &ProductSummarizer{provider: provider}
}

// Summarize asks the provider for a synopsis of product's reviews
func (s *ProductSummarizer) Summarize(ctx context.Context, product *models.Product) (string, error) {
	if len(product.Reviews) == 0 {
		return "", ErrNoReviews
	}

	resp, err := s.provider.Complete(ctx, CompletionRequest{
		Prompt:      BuildPrompt(product),
		System:      systemPrompt,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", s.provider.ID(), err)
	}
	return resp.Text, nil
}

// errNotConfigured is what Disabled reports when it carries no cause
var errNotConfigured = errors.New("no summary provider configured")

// Disabled always fails. It stands in when no provider is configured, or when
// the configured one could not be built; Err then carries the reason.
type Disabled struct {
	Err error
}

// Summarize implements services.Summarizer
func (d Disabled) Summarize(ctx context.Context, product *models.Product) (string, error) {
	if d.Err != nil {
		return "", d.Err
	}
	return "", errNotConfigured
}
