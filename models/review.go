package models

import (
	"fmt"
	"time"
)

// MinStars and MaxStars bound every review rating and filter selection
const (
	MinStars = 1
	MaxStars = 5
)

// RawReview represents unprocessed review data as scraped or imported
type RawReview struct {
	Category    string
	ProductSlug string
	ProductName string
	Description string
	Author      string
	RawStars    string // e.g. "4", "4 out of 5 stars", "★★★★☆"
	Body        string
	SourceURL   string
	ScrapedAt   time.Time
}

// Review is a single customer rating. It is immutable once loaded.
type Review struct {
	ID       string
	Stars    int
	Author   string
	Body     string
	Metadata map[string]string
}

// NewReview validates the star value and builds a Review
func NewReview(id string, stars int, author, body string, metadata map[string]string) (Review, error) {
	if !ValidStars(stars) {
		return Review{}, fmt.Errorf("%w: %d", ErrInvalidRating, stars)
	}
	return Review{ID: id, Stars: stars, Author: author, Body: body, Metadata: metadata}, nil
}

// ValidStars reports whether stars is within [MinStars, MaxStars]
func ValidStars(stars int) bool {
	return stars >= MinStars && stars <= MaxStars
}

// Product is the catalog entity under review, identified by category + slug
type Product struct {
	Slug        string
	Category    string
	Name        string
	Description string
	Reviews     []Review
}

// RatingCount maps each star value 1..5 to the number of reviews with that value.
// All five keys are always present.
type RatingCount map[int]int

// Total returns the sum of all counts
func (c RatingCount) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// RatingSummary holds the aggregate figures shown alongside a product
type RatingSummary struct {
	Total   int
	Counts  RatingCount
	Average float64
}

// ProductOverview is one row of the catalog listing
type ProductOverview struct {
	Slug        string
	Category    string
	Name        string
	Description string
	ReviewCount int
	Average     float64
	Stars       int // average rounded to whole stars
}

// Summary is the result of the summary side channel. When Available is false,
// Text holds the fallback message and Err the cause.
type Summary struct {
	Text      string
	Available bool
	Err       error
}
