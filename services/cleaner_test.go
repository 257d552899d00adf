package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-reviews/models"
	"product-reviews/utils"
)

func TestParseStars(t *testing.T) {
	cases := map[string]struct {
		want int
		ok   bool
	}{
		"5":                {5, true},
		" 3 ":              {3, true},
		"4.0":              {4, true},
		"2 stars":          {2, true},
		"4/5":              {4, true},
		"4 out of 5 stars": {4, true},
		"★★★☆☆":            {3, true},
		"★":                {1, true},
		"":                 {0, false},
		"0":                {0, false},
		"6":                {0, false},
		"4.5":              {0, false},
		"4.5 out of 5":     {0, false},
		"great":            {0, false},
		"★★★★★★":           {0, false},
		"☆☆☆":              {0, false},
		"3/50":             {0, false},
		"3 out of 55":      {0, false},
		"4/5.":             {4, true},
	}
	for raw, tc := range cases {
		got, ok := parseStars(raw)
		assert.Equal(t, tc.ok, ok, "parseStars(%q) ok", raw)
		if tc.ok {
			assert.Equal(t, tc.want, got, "parseStars(%q)", raw)
		}
	}
}

func TestReviewCleaner_GroupsAndValidates(t *testing.T) {
	raw := []*models.RawReview{
		{Category: "Kitchen", ProductSlug: "Steel Kettle", ProductName: " Steel Kettle ", Author: " Ada ", RawStars: "5", Body: " Boils fast. "},
		{Category: "kitchen", ProductSlug: "steel-kettle", Author: "Bob", RawStars: "7", Body: "Too many stars"},
		{Category: "outdoor", ProductSlug: "tent", ProductName: "Tent", Author: "Cy", RawStars: "2 out of 5", Body: "Leaks", SourceURL: "https://example.com/tent"},
		{Category: "kitchen", ProductSlug: "steel-kettle", Author: "Ada", RawStars: "5", Body: "Boils fast."},
		{Category: "kitchen", ProductSlug: "", Author: "Nobody", RawStars: "3"},
		{Category: "kitchen", ProductSlug: "steel-kettle", Author: "Dee", RawStars: "★★★", Body: "Fine"},
	}

	products := NewReviewCleaner(utils.NewNopLogger()).Clean(raw)
	require.Len(t, products, 2)

	kettle := products[0]
	assert.Equal(t, "steel-kettle", kettle.Slug)
	assert.Equal(t, "kitchen", kettle.Category)
	assert.Equal(t, "Steel Kettle", kettle.Name)
	require.Len(t, kettle.Reviews, 2)
	assert.Equal(t, "Ada", kettle.Reviews[0].Author)
	assert.Equal(t, "Boils fast.", kettle.Reviews[0].Body)
	assert.Equal(t, 3, kettle.Reviews[1].Stars)

	tent := products[1]
	require.Len(t, tent.Reviews, 1)
	assert.Equal(t, "https://example.com/tent", tent.Reviews[0].Metadata["source"])
}

func TestReviewCleaner_DeterministicIDs(t *testing.T) {
	raw := []*models.RawReview{{Category: "c", ProductSlug: "p", Author: "A", RawStars: "4", Body: "ok"}}
	c := NewReviewCleaner(utils.NewNopLogger())

	first := c.Clean(raw)[0].Reviews[0].ID
	second := c.Clean(raw)[0].Reviews[0].ID
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestReviewCleaner_ProductWithoutValidReviews(t *testing.T) {
	raw := []*models.RawReview{{Category: "c", ProductSlug: "p", Author: "A", RawStars: "n/a"}}
	products := NewReviewCleaner(utils.NewNopLogger()).Clean(raw)

	require.Len(t, products, 1)
	assert.Empty(t, products[0].Reviews)
	assert.Equal(t, "p", products[0].Name)
}
