package models

import "errors"

var (
	// ErrInvalidRating is returned when a star value falls outside 1..5
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrProductNotFound is returned by repositories when no product matches
	ErrProductNotFound = errors.New("product not found")

	// ErrSummaryUnavailable wraps any failure of the summary collaborator
	ErrSummaryUnavailable = errors.New("summary unavailable")
)
