package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-reviews/models"
	"product-reviews/utils"
)

func TestFiveStars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", FiveStars(3))
	assert.Equal(t, "☆☆☆☆☆", FiveStars(-1))
	assert.Equal(t, "★★★★★", FiveStars(9))
}

func TestCategoryHeading(t *testing.T) {
	assert.Equal(t, "Kitchen Tools", CategoryHeading("kitchen-tools"))
}

func TestFilterRows_DescendingWithCounts(t *testing.T) {
	rows := FilterRows(models.RatingCount{1: 1, 2: 0, 3: 1, 4: 0, 5: 2}, 0)
	require.Len(t, rows, 5)
	assert.Contains(t, rows[0], "[5]")
	assert.Contains(t, rows[0], "(2)")
	assert.Contains(t, rows[3], "(0)")
	assert.Contains(t, rows[4], "[1]")
}

func TestPrintProductPage_NoMatch(t *testing.T) {
	ratings := NewRatingService(utils.NewNopLogger()).Summarize(kettle)
	page := &ProductPage{
		Product: kettle,
		Ratings: ratings,
		View:    Project(kettle.Reviews, mustSet(t, 4, 2)),
		Summary: &models.Summary{Text: FallbackSummary},
	}

	var buf bytes.Buffer
	PrintProductPage(&buf, page)
	out := buf.String()

	assert.Contains(t, out, "Kettle")
	assert.Contains(t, out, "Based on 4 customer ratings")
	assert.Contains(t, out, "3.5 out of 5")
	assert.Contains(t, out, FallbackSummary)
	assert.Contains(t, out, "Showing 0 of 4 reviews")
	assert.Contains(t, out, "No 4, 2-star reviews yet.")
}

func TestPrintProductPage_PendingSummaryAndReviews(t *testing.T) {
	ratings := NewRatingService(utils.NewNopLogger()).Summarize(kettle)
	page := &ProductPage{Product: kettle, Ratings: ratings, View: Project(kettle.Reviews, 0)}

	var buf bytes.Buffer
	PrintProductPage(&buf, page)
	out := buf.String()

	assert.Contains(t, out, "Summarizing reviews...")
	assert.NotContains(t, out, "Showing")
	assert.NotContains(t, out, "No reviews yet.")
}

func TestPrintCatalog(t *testing.T) {
	var buf bytes.Buffer
	PrintCatalog(&buf, []models.ProductOverview{{Slug: "kettle", Category: "kitchen", Name: "Kettle", ReviewCount: 4, Stars: 4}})
	assert.Contains(t, buf.String(), "kitchen/kettle")
	assert.Contains(t, buf.String(), "4 reviews")

	buf.Reset()
	PrintCatalog(&buf, nil)
	assert.Contains(t, buf.String(), "No products in catalog.")
}
