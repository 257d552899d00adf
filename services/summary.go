package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"product-reviews/models"
	"product-reviews/utils"
)

// FallbackSummary is shown whenever the summary collaborator fails
const FallbackSummary = "AI summary unavailable."

// Summarizer produces a natural-language synopsis of a product's reviews
type Summarizer interface {
	Summarize(ctx context.Context, product *models.Product) (string, error)
}

// SummaryService runs a Summarizer as a best-effort side channel.
// Failures never propagate: they are logged and replaced by FallbackSummary.
type SummaryService struct {
	summarizer Summarizer
	timeout    time.Duration
	logger     *utils.Logger
}

// NewSummaryService creates a SummaryService. A zero timeout disables the deadline.
func NewSummaryService(summarizer Summarizer, timeout time.Duration, logger *utils.Logger) *SummaryService {
	return &SummaryService{summarizer: summarizer, timeout: timeout, logger: logger}
}

// Summarize calls the collaborator synchronously and always returns a usable Summary
func (s *SummaryService) Summarize(ctx context.Context, product *models.Product) (summary models.Summary) {
	defer func() {
		if r := recover(); r != nil {
			summary = s.fallback(product, fmt.Errorf("%w: panic: %v", models.ErrSummaryUnavailable, r))
		}
	}()

	if s.summarizer == nil {
		return s.fallback(product, fmt.Errorf("%w: no summarizer configured", models.ErrSummaryUnavailable))
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.summarizer.Summarize(ctx, product)
	if err != nil {
		return s.fallback(product, fmt.Errorf("%w: %w", models.ErrSummaryUnavailable, err))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return s.fallback(product, fmt.Errorf("%w: empty response", models.ErrSummaryUnavailable))
	}
	return models.Summary{Text: text, Available: true}
}

// Start runs Summarize in its own goroutine. The returned channel receives
// exactly one value and is then closed; a caller that loses interest may drop it.
func (s *SummaryService) Start(ctx context.Context, product *models.Product) <-chan models.Summary {
	out := make(chan models.Summary, 1)
	go func() {
		defer close(out)
		out <- s.Summarize(ctx, product)
	}()
	return out
}

// Await waits up to wait for a started summary, substituting the fallback on timeout
func (s *SummaryService) Await(ch <-chan models.Summary, wait time.Duration) models.Summary {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case summary, ok := <-ch:
		if !ok {
			return models.Summary{Text: FallbackSummary, Err: models.ErrSummaryUnavailable}
		}
		return summary
	case <-timer.C:
		err := fmt.Errorf("%w: no result after %v", models.ErrSummaryUnavailable, wait)
		s.logger.Warn("AI summary unavailable: %v", err)
		return models.Summary{Text: FallbackSummary, Err: err}
	}
}

func (s *SummaryService) fallback(product *models.Product, err error) models.Summary {
	s.logger.Error("AI summary unavailable for '%s': %v", product.Slug, err)
	return models.Summary{Text: FallbackSummary, Err: err}
}
