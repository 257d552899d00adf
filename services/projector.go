package services

import (
	"fmt"
	"strconv"
	"strings"

	"product-reviews/models"
)

// LabelSeparator joins selected ratings in a selection label
const LabelSeparator = ", "

// ReviewView is the derived, render-ready state of a product's review list
type ReviewView struct {
	Reviews []models.Review
	Total   int
	Filter  models.StarSet
	Label   string // empty when no filter is active
}

// Filtered reports whether a star filter is applied
func (v ReviewView) Filtered() bool {
	return v.Filter.IsActive()
}

// NoMatch is true when a filter is active and nothing survives it
func (v ReviewView) NoMatch() bool {
	return v.Filter.IsActive() && len(v.Reviews) == 0
}

// EmptyMessage returns the text for an empty list, or "" when the list is not empty
func (v ReviewView) EmptyMessage() string {
	switch {
	case len(v.Reviews) > 0:
		return ""
	case v.NoMatch():
		return fmt.Sprintf("No %s-star reviews yet.", v.Label)
	default:
		return "No reviews yet."
	}
}

// CountLine returns "Showing X of Y reviews" when filtered, "" otherwise
func (v ReviewView) CountLine() string {
	if !v.Filtered() {
		return ""
	}
	return fmt.Sprintf("Showing %d of %d reviews", len(v.Reviews), v.Total)
}

// VisibleReviews returns reviews unchanged when filter is empty; otherwise the
// reviews whose stars are selected, in their original order.
func VisibleReviews(reviews []models.Review, filter models.StarSet) []models.Review {
	if !filter.IsActive() {
		return reviews
	}
	visible := make([]models.Review, 0, len(reviews))
	for _, rv := range reviews {
		if filter.Has(rv.Stars) {
			visible = append(visible, rv)
		}
	}
	return visible
}

// SelectionLabel joins the selected ratings in descending order, e.g. "5, 3"
func SelectionLabel(filter models.StarSet) string {
	stars := filter.Descending()
	parts := make([]string, len(stars))
	for i, r := range stars {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, LabelSeparator)
}

// Project derives the full view for reviews under filter
func Project(reviews []models.Review, filter models.StarSet) ReviewView {
	view := ReviewView{
		Reviews: VisibleReviews(reviews, filter),
		Total:   len(reviews),
		Filter:  filter,
	}
	if filter.IsActive() {
		view.Label = SelectionLabel(filter)
	}
	return view
}
