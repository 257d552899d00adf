package reviews

import (
	"strings"
	"time"

	"product-reviews/models"
)

// Target is one product page to scrape, filed under Category/Slug
type Target struct {
	Category string
	Slug     string
	URL      string
}

// pageData is what the extraction script returns for one page
type pageData struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Next        string     `json:"next"`
	Reviews     []cardData `json:"reviews"`
}

type cardData struct {
	Author string `json:"author"`
	Rating string `json:"rating"`
	Body   string `json:"body"`
}

// toRawReviews turns extracted review cards into raw rows for target.
// Cards with neither rating nor body are dropped; at most limit rows are returned.
func toRawReviews(target Target, pageURL string, page pageData, scrapedAt time.Time, limit int) []*models.RawReview {
	var out []*models.RawReview
	for _, c := range page.Reviews {
		if limit >= 0 && len(out) >= limit {
			break
		}
		rating := collapseSpace(c.Rating)
		body := collapseSpace(c.Body)
		if rating == "" && body == "" {
			continue
		}
		out = append(out, &models.RawReview{
			Category:    target.Category,
			ProductSlug: target.Slug,
			ProductName: collapseSpace(page.Title),
			Description: collapseSpace(page.Description),
			Author:      collapseSpace(c.Author),
			RawStars:    rating,
			Body:        body,
			SourceURL:   pageURL,
			ScrapedAt:   scrapedAt,
		})
	}
	return out
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
