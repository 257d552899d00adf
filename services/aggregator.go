package services

import (
	"math"

	"product-reviews/models"
	"product-reviews/utils"
)

// ComputeCounts tallies reviews per star value. Ratings with no reviews
// are present with a zero count; the keys are always exactly 1..5.
// Reviews outside 1..5 (only possible from a struct literal that skipped
// models.NewReview) are not counted.
func ComputeCounts(reviews []models.Review) models.RatingCount {
	counts := make(models.RatingCount, models.MaxStars)
	for r := models.MinStars; r <= models.MaxStars; r++ {
		counts[r] = 0
	}
	for _, rv := range reviews {
		if models.ValidStars(rv.Stars) {
			counts[rv.Stars]++
		}
	}
	return counts
}

// ComputeAverage returns the unrounded mean star value, or 0 for no reviews.
// Like ComputeCounts it ignores out-of-range reviews, so the two always agree.
func ComputeAverage(reviews []models.Review) float64 {
	total, n := 0, 0
	for _, rv := range reviews {
		if models.ValidStars(rv.Stars) {
			total += rv.Stars
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// RoundStars converts an average into a whole number of star glyphs
func RoundStars(average float64) int {
	return int(math.Round(average))
}

// RatingService computes aggregate ratings for products
type RatingService struct {
	logger *utils.Logger
}

// NewRatingService creates a new RatingService
func NewRatingService(logger *utils.Logger) *RatingService {
	return &RatingService{logger: logger}
}

// Summarize computes counts and average for one product
func (s *RatingService) Summarize(product *models.Product) *models.RatingSummary {
	counts := ComputeCounts(product.Reviews)
	summary := &models.RatingSummary{
		Total:   counts.Total(),
		Counts:  counts,
		Average: ComputeAverage(product.Reviews),
	}
	if skipped := len(product.Reviews) - summary.Total; skipped > 0 {
		s.logger.Warn("Product '%s': ignored %d reviews with out-of-range stars", product.Slug, skipped)
	}
	if summary.Total == 0 {
		s.logger.Debug("Product '%s' has no reviews", product.Slug)
	}
	return summary
}

// Overview builds the catalog listing rows, preserving product order
func (s *RatingService) Overview(products []*models.Product) []models.ProductOverview {
	rows := make([]models.ProductOverview, 0, len(products))
	for _, p := range products {
		avg := ComputeAverage(p.Reviews)
		rows = append(rows, models.ProductOverview{
			Slug:        p.Slug,
			Category:    p.Category,
			Name:        p.Name,
			Description: p.Description,
			ReviewCount: len(p.Reviews),
			Average:     avg,
			Stars:       RoundStars(avg),
		})
	}
	return rows
}
