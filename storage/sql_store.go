package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"product-reviews/models"
	"product-reviews/utils"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS products (
	id          SERIAL PRIMARY KEY,
	slug        TEXT NOT NULL UNIQUE,
	category    TEXT NOT NULL,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS reviews (
	id           SERIAL PRIMARY KEY,
	review_id    TEXT NOT NULL,
	product_slug TEXT NOT NULL REFERENCES products (slug) ON DELETE CASCADE,
	position     INTEGER NOT NULL,
	stars        SMALLINT NOT NULL CHECK (stars BETWEEN 1 AND 5),
	author       TEXT NOT NULL DEFAULT '',
	body         TEXT NOT NULL DEFAULT '',
	metadata     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews (product_slug, position);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS products (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	slug        TEXT NOT NULL UNIQUE,
	category    TEXT NOT NULL,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS reviews (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	review_id    TEXT NOT NULL,
	product_slug TEXT NOT NULL REFERENCES products (slug) ON DELETE CASCADE,
	position     INTEGER NOT NULL,
	stars        INTEGER NOT NULL CHECK (stars BETWEEN 1 AND 5),
	author       TEXT NOT NULL DEFAULT '',
	body         TEXT NOT NULL DEFAULT '',
	metadata     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews (product_slug, position);
`

// SQLStore keeps products and reviews in PostgreSQL or SQLite.
// Both dialects accept the $N placeholders used below.
type SQLStore struct {
	db     *sql.DB
	schema string
	logger *utils.Logger
}

// NewPostgresStore opens a PostgreSQL connection pool and pings it, retrying on failure
func NewPostgresStore(ctx context.Context, connStr string, maxRetries int, logger *utils.Logger) (*SQLStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := utils.RetryWithBackoff(ctx, maxRetries, time.Second, db.PingContext, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL successfully")
	return &SQLStore{db: db, schema: postgresSchema, logger: logger}, nil
}

// NewSQLiteStore opens (creating if needed) a SQLite database file
func NewSQLiteStore(ctx context.Context, path string, logger *utils.Logger) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite DB: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping SQLite DB: %w", err)
	}

	logger.Info("Opened SQLite database at %s", path)
	return &SQLStore{db: db, schema: sqliteSchema, logger: logger}, nil
}

// CreateTables creates the products and reviews tables if they don't exist
func (s *SQLStore) CreateTables(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	s.logger.Info("Tables 'products' and 'reviews' are ready")
	return nil
}

// SaveProduct upserts the product and replaces its reviews in a single transaction
func (s *SQLStore) SaveProduct(ctx context.Context, product *models.Product) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (slug, category, name, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE
		SET category = EXCLUDED.category, name = EXCLUDED.name, description = EXCLUDED.description
	`, product.Slug, product.Category, product.Name, product.Description)
	if err != nil {
		return fmt.Errorf("failed to upsert product '%s': %w", product.Slug, err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM reviews WHERE product_slug = $1`, product.Slug); err != nil {
		return fmt.Errorf("failed to clear reviews for '%s': %w", product.Slug, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reviews (review_id, product_slug, position, stars, author, body, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range product.Reviews {
		var meta string
		meta, err = encodeMetadata(r.Metadata)
		if err != nil {
			return err
		}
		if _, err = stmt.ExecContext(ctx, r.ID, product.Slug, i, r.Stars, r.Author, r.Body, meta); err != nil {
			return fmt.Errorf("failed to insert review %d for '%s': %w", i, product.Slug, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Saved '%s' with %d reviews", product.Slug, len(product.Reviews))
	return nil
}

// GetProduct loads one product with its reviews in original order
func (s *SQLStore) GetProduct(ctx context.Context, category, slug string) (*models.Product, error) {
	p := &models.Product{}
	err := s.db.QueryRowContext(ctx,
		`SELECT slug, category, name, description FROM products WHERE slug = $1`, slug,
	).Scan(&p.Slug, &p.Category, &p.Name, &p.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product '%s': %w", slug, err)
	}
	if p.Category != category {
		return nil, models.ErrProductNotFound
	}

	reviews, err := s.loadReviews(ctx, `WHERE product_slug = $1`, slug)
	if err != nil {
		return nil, err
	}
	p.Reviews = reviews[slug]
	return p, nil
}

// ListProducts returns every product in insertion order, with reviews
func (s *SQLStore) ListProducts(ctx context.Context) ([]*models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slug, category, name, description FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.Slug, &p.Category, &p.Name, &p.Description); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	reviews, err := s.loadReviews(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		p.Reviews = reviews[p.Slug]
	}
	return products, nil
}

// loadReviews returns reviews grouped by product slug, each group in position order
func (s *SQLStore) loadReviews(ctx context.Context, where string, args ...any) (map[string][]models.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_slug, review_id, stars, author, body, metadata FROM reviews `+where+` ORDER BY product_slug, position`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.Review)
	for rows.Next() {
		var slug, id, author, body, meta string
		var stars int
		if err := rows.Scan(&slug, &id, &stars, &author, &body, &meta); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		metadata, err := decodeMetadata(meta)
		if err != nil {
			return nil, err
		}
		r, err := models.NewReview(id, stars, author, body, metadata)
		if err != nil {
			s.logger.Warn("Skipping stored review %s for '%s': %v", id, slug, err)
			continue
		}
		out[slug] = append(out[slug], r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reviews: %w", err)
	}
	return out, nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func encodeMetadata(m map[string]string) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode review metadata: %w", err)
	}
	return string(b), nil
}

func decodeMetadata(s string) (map[string]string, error) {
	if s == "" {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("failed to decode review metadata: %w", err)
	}
	return m, nil
}
