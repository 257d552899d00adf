package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"product-reviews/config"
	"product-reviews/models"
	"product-reviews/scraper/reviews"
	"product-reviews/services"
	"product-reviews/storage"
	"product-reviews/summarizer"
	"product-reviews/tui"
	"product-reviews/utils"
)

// app carries what every command needs
type app struct {
	cfg    *config.Config
	logger *utils.Logger
}

func newRootCmd(cfg *config.Config, logger *utils.Logger) *cobra.Command {
	a := &app{cfg: cfg, logger: logger}

	root := &cobra.Command{
		Use:           "product-reviews",
		Short:         "Browse product ratings, filter reviews by stars and read AI summaries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		a.listCmd(),
		a.showCmd(),
		a.browseCmd(),
		a.importCmd(),
		a.scrapeCmd(),
	)
	return root
}

// openStore picks the backend: PostgreSQL, then SQLite, then a YAML catalog,
// then the built-in sample catalog
func openStore(ctx context.Context, cfg *config.Config, logger *utils.Logger) (storage.Store, error) {
	switch {
	case cfg.DatabaseURL != "":
		pg, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL, cfg.MaxRetries, logger)
		if err != nil {
			return nil, fmt.Errorf("cannot connect to PostgreSQL: %w", err)
		}
		if err := pg.CreateTables(ctx); err != nil {
			_ = pg.Close()
			return nil, err
		}
		return pg, nil

	case cfg.SQLitePath != "":
		db, err := storage.NewSQLiteStore(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		if err := db.CreateTables(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil

	case cfg.CatalogPath != "":
		logger.Debug("Serving catalog from %s", cfg.CatalogPath)
		return storage.LoadCatalogFile(cfg.CatalogPath)

	default:
		logger.Debug("No storage configured, serving the sample catalog")
		return storage.SampleStore()
	}
}

// pageService wires the store into the read side. A summary provider that
// cannot be built degrades to the fallback text instead of failing the page.
func (a *app) pageService(ctx context.Context, store storage.Store) *services.PageService {
	s, err := summarizer.NewFromConfig(ctx, a.cfg)
	if err != nil {
		a.logger.Warn("AI summary disabled: %v", err)
		s = summarizer.Disabled{Err: err}
	}
	return services.NewPageService(
		store,
		services.NewRatingService(a.logger),
		services.NewSummaryService(s, a.cfg.SummaryTimeout, a.logger),
		a.logger,
	)
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every product with its review count and average rating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			// The listing never shows summaries, so no provider is built
			svc := services.NewPageService(store, services.NewRatingService(a.logger), nil, a.logger)
			rows, err := svc.Catalog(ctx)
			if err != nil {
				return err
			}
			services.PrintCatalog(cmd.OutOrStdout(), rows)
			return nil
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	var stars []int
	cmd := &cobra.Command{
		Use:   "show <category> <slug>",
		Short: "Print a product page, optionally filtered to some star ratings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			session, err := a.pageService(ctx, store).Open(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			selection, err := models.NewStarSet(stars...)
			if err != nil {
				return fmt.Errorf("--stars: %w", err)
			}
			for _, r := range selection.Descending() {
				if err := session.Filter.Toggle(r); err != nil {
					return err
				}
			}

			summary := session.SummaryService().Await(session.Summary, a.cfg.SummaryTimeout)
			services.PrintProductPage(cmd.OutOrStdout(), session.Page(&summary))
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&stars, "stars", nil, "star rating to include (repeatable or comma-separated, 1-5)")
	return cmd
}

func (a *app) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <category> <slug>",
		Short: "Open an interactive product page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			session, err := a.pageService(ctx, store).Open(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return tui.Run(tui.New(session, a.cfg.SummaryTimeout))
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv>",
		Short: "Clean raw reviews from a CSV file and save them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			raw, err := storage.ReadRawReviewsFile(args[0])
			if err != nil {
				return err
			}
			return a.cleanAndSave(ctx, cmd, raw)
		},
	}
}

func (a *app) scrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <category> <slug> <url>",
		Short: "Scrape a product's reviews, dump them to CSV, then clean and save them",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a.logger.Info("Concurrency: %d | Rate delay: %dms | Retries: %d | Cap: %d",
				a.cfg.MaxConcurrency, a.cfg.RateLimitDelay, a.cfg.MaxRetries, a.cfg.ReviewsPerProduct)

			scraper := reviews.NewReviewScraper(a.cfg, a.logger)
			raw, err := scraper.Scrape(ctx, []reviews.Target{{Category: args[0], Slug: args[1], URL: args[2]}})
			if err != nil {
				return fmt.Errorf("scraping failed: %w", err)
			}
			if len(raw) == 0 {
				a.logger.Warn("No reviews scraped, check the URL or the page structure")
				return nil
			}

			// A failed CSV dump does not stop the database write
			if err := storage.NewCSVWriter(a.cfg.CSVFilePath, a.logger).WriteRawReviews(raw); err != nil {
				a.logger.Error("Failed to write CSV: %v", err)
			}
			return a.cleanAndSave(ctx, cmd, raw)
		},
	}
}

func (a *app) cleanAndSave(ctx context.Context, cmd *cobra.Command, raw []*models.RawReview) error {
	products := services.NewReviewCleaner(a.logger).Clean(raw)

	store, err := openStore(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if a.cfg.DatabaseURL == "" && a.cfg.SQLitePath == "" {
		a.logger.Warn("No DATABASE_URL or SQLITE_PATH set, imported products will not persist")
	}

	for _, p := range products {
		if err := store.SaveProduct(ctx, p); err != nil {
			return fmt.Errorf("failed to save '%s': %w", p.Slug, err)
		}
	}

	ratings := services.NewRatingService(a.logger)
	services.PrintCatalog(cmd.OutOrStdout(), ratings.Overview(products))
	fmt.Fprintf(cmd.OutOrStdout(), " Saved %d products from %d raw reviews\n", len(products), len(raw))
	return nil
}
