package reviews

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"

	"product-reviews/config"
	"product-reviews/models"
	"product-reviews/utils"
)

// extractScript pulls the product heading, review cards and next-page link.
// It tries schema.org markup first, then common review widget class names.
const extractScript = `
(function() {
	var text = function(root, sels) {
		for (var i = 0; i < sels.length; i++) {
			var el = root.querySelector(sels[i]);
			if (el) {
				var v = el.getAttribute('content') || el.getAttribute('aria-label') || el.innerText || '';
				if (v.trim()) return v.trim();
			}
		}
		return '';
	};

	var title = text(document, ['[itemprop="name"]', 'h1']);
	var description = text(document, ['[itemprop="description"]', 'meta[name="description"]']);

	var cards = document.querySelectorAll('[itemprop="review"]');
	if (cards.length === 0) cards = document.querySelectorAll('[data-hook="review"]');
	if (cards.length === 0) cards = document.querySelectorAll('.review, [class*="review-item"], [class*="ReviewCard"]');

	var reviews = [];
	cards.forEach(function(card) {
		var rating = text(card, [
			'[itemprop="ratingValue"]',
			'[aria-label*="out of 5"]',
			'[class*="rating"]',
			'[class*="stars"]'
		]);
		var body = text(card, ['[itemprop="reviewBody"]', '[data-hook="review-body"]', 'p']);
		var author = text(card, ['[itemprop="author"]', '[class*="author"]']);
		reviews.push({author: author, rating: rating, body: body});
	});

	var next = document.querySelector('a[rel="next"]') ||
	           document.querySelector('a[aria-label="Next"]') ||
	           document.querySelector('[data-testid="pagination-next-btn"]');

	return {title: title, description: description, next: next ? next.href : '', reviews: reviews};
})()
`

// ReviewScraper collects raw reviews from product pages with headless Chrome
type ReviewScraper struct {
	cfg         *config.Config
	logger      *utils.Logger
	rateLimiter *utils.RateLimiter
	seenPages   *utils.SeenTracker
}

// NewReviewScraper creates a new ReviewScraper
func NewReviewScraper(cfg *config.Config, logger *utils.Logger) *ReviewScraper {
	return &ReviewScraper{
		cfg:         cfg,
		logger:      logger,
		rateLimiter: utils.NewRateLimiter(cfg.RateLimitDelay),
		seenPages:   utils.NewSeenTracker(),
	}
}

// newBrowser starts one headless browser; each target gets its own tab
func (s *ReviewScraper) newBrowser(ctx context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("log-level", "3"),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	return browserCtx, func() {
		cancelBrowser()
		cancelAlloc()
	}
}

// Scrape visits every target, up to MaxConcurrency at a time. A failed target is
// logged and skipped; the error is returned only when the browser cannot start
// or the context ends.
func (s *ReviewScraper) Scrape(ctx context.Context, targets []Target) ([]*models.RawReview, error) {
	s.logger.Info("Starting review scraper for %d products...", len(targets))

	browserCtx, cancel := s.newBrowser(ctx)
	defer cancel()

	// Launch the browser before tabs are forked from it
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	var (
		mu  sync.Mutex
		all []*models.RawReview
	)

	g, gctx := errgroup.WithContext(browserCtx)
	g.SetLimit(s.cfg.MaxConcurrency)

	for _, target := range targets {
		g.Go(func() error {
			tabCtx, cancelTab := chromedp.NewContext(gctx)
			defer cancelTab()

			reviews, err := s.scrapeTarget(tabCtx, target)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Error("Product '%s' failed: %v", target.Slug, err)
				return nil
			}

			mu.Lock()
			all = append(all, reviews...)
			mu.Unlock()
			s.logger.Info("Product '%s': collected %d reviews", target.Slug, len(reviews))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return all, fmt.Errorf("scrape interrupted: %w", err)
	}

	s.logger.Info("Scraping complete. Total raw reviews: %d from %d pages", len(all), s.seenPages.Count())
	return all, nil
}

// scrapeTarget follows review pagination until the per-product cap is reached
func (s *ReviewScraper) scrapeTarget(ctx context.Context, target Target) ([]*models.RawReview, error) {
	log := s.logger.With("product", target.Slug)
	var collected []*models.RawReview
	pageURL := target.URL
	pageNum := 1

	for pageURL != "" && len(collected) < s.cfg.ReviewsPerProduct {
		if !s.seenPages.Add(pageURL) {
			log.Debug("Skipping already visited %s", pageURL)
			break
		}
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return collected, err
		}

		log.Info("Page %d (have %d/%d)...", pageNum, len(collected), s.cfg.ReviewsPerProduct)

		page, err := s.scrapePage(ctx, pageURL)
		if err != nil {
			if len(collected) > 0 {
				log.Warn("Page %d failed, keeping %d reviews: %v", pageNum, len(collected), err)
				break
			}
			return nil, err
		}

		rows := toRawReviews(target, pageURL, page, time.Now(), s.cfg.ReviewsPerProduct-len(collected))
		if len(rows) == 0 {
			log.Warn("No reviews found on page %d", pageNum)
			break
		}
		collected = append(collected, rows...)
		pageURL = page.Next
		pageNum++
	}
	return collected, nil
}

// scrapePage loads one page and runs the extraction script, with retries
func (s *ReviewScraper) scrapePage(ctx context.Context, pageURL string) (pageData, error) {
	var page pageData
	err := utils.RetryWithBackoff(ctx, s.cfg.MaxRetries, 2*time.Second, func(ctx context.Context) error {
		if err := chromedp.Run(ctx,
			chromedp.Navigate(pageURL),
			chromedp.Sleep(3*time.Second),
		); err != nil {
			return fmt.Errorf("navigate failed: %w", err)
		}

		page = pageData{}
		if err := chromedp.Run(ctx, chromedp.Evaluate(extractScript, &page)); err != nil {
			return fmt.Errorf("review JS failed: %w", err)
		}
		return nil
	}, s.logger)
	return page, err
}
