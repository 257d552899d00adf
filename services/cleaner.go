package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"product-reviews/models"
	"product-reviews/utils"
)

var (
	outOfRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:/|out of)\s*5\b`)
	digitRegex = regexp.MustCompile(`^\s*(\d+)(?:\.0+)?\s*(?:stars?)?\s*$`)
)

// reviewNamespace seeds deterministic review ids
var reviewNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("product-reviews/review"))

// ReviewCleaner normalizes raw review records into products with validated reviews
type ReviewCleaner struct {
	logger *utils.Logger
}

// NewReviewCleaner creates a new ReviewCleaner
func NewReviewCleaner(logger *utils.Logger) *ReviewCleaner {
	return &ReviewCleaner{logger: logger}
}

// Clean groups raw reviews by product in first-seen order, dropping records with
// no product, unparseable or out-of-range stars, and exact duplicates.
func (c *ReviewCleaner) Clean(raw []*models.RawReview) []*models.Product {
	seen := utils.NewSeenTracker()
	bySlug := make(map[string]*models.Product)
	var products []*models.Product
	kept := 0

	for _, r := range raw {
		slug := normalizeSlug(r.ProductSlug)
		if slug == "" {
			c.logger.Debug("Skipping review with empty product slug")
			continue
		}

		product, ok := bySlug[slug]
		if !ok {
			product = &models.Product{
				Slug:        slug,
				Category:    normalizeSlug(r.Category),
				Name:        strings.TrimSpace(r.ProductName),
				Description: strings.TrimSpace(r.Description),
			}
			if product.Name == "" {
				product.Name = slug
			}
			bySlug[slug] = product
			products = append(products, product)
		}

		stars, ok := parseStars(r.RawStars)
		if !ok {
			c.logger.Debug("Skipping review by '%s' on %s: bad stars %q", r.Author, slug, r.RawStars)
			continue
		}

		author := strings.TrimSpace(r.Author)
		body := strings.TrimSpace(r.Body)
		key := slug + "|" + author + "|" + strconv.Itoa(stars) + "|" + body
		if !seen.Add(key) {
			c.logger.Debug("Skipping duplicate review by '%s' on %s", author, slug)
			continue
		}

		var metadata map[string]string
		if src := strings.TrimSpace(r.SourceURL); src != "" {
			metadata = map[string]string{"source": src}
		}

		review, err := models.NewReview(uuid.NewSHA1(reviewNamespace, []byte(key)).String(), stars, author, body, metadata)
		if err != nil {
			c.logger.Debug("Skipping review by '%s' on %s: %v", author, slug, err)
			continue
		}
		product.Reviews = append(product.Reviews, review)
		kept++
	}

	c.logger.Info("Cleaned %d reviews across %d products from %d raw records (%d distinct)", kept, len(products), len(raw), seen.Count())
	return products
}

// parseStars extracts a whole star value from strings like "4", "4/5",
// "4 out of 5 stars" or "★★★★☆". Fractional values are rejected.
func parseStars(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	if strings.ContainsRune(raw, '★') {
		n := strings.Count(raw, "★")
		rest := strings.NewReplacer("★", "", "☆", "").Replace(raw)
		if strings.TrimSpace(rest) != "" || n > models.MaxStars || utf8.RuneCountInString(raw) > models.MaxStars {
			return 0, false
		}
		return n, models.ValidStars(n)
	}

	var num string
	if m := outOfRegex.FindStringSubmatch(strings.ToLower(raw)); len(m) >= 2 {
		num = m[1]
	} else if m := digitRegex.FindStringSubmatch(strings.ToLower(raw)); len(m) >= 2 {
		num = m[1]
	} else {
		return 0, false
	}

	val, err := strconv.ParseFloat(num, 64)
	if err != nil || val != float64(int(val)) {
		return 0, false
	}
	stars := int(val)
	return stars, models.ValidStars(stars)
}

// normalizeSlug lowercases and hyphenates an identifier
func normalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "-")
}
