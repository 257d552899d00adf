package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"product-reviews/models"
	"product-reviews/utils"
)

var csvHeader = []string{
	"category", "product_slug", "product_name", "description",
	"author", "raw_stars", "body", "source_url", "scraped_at",
}

// CSVWriter handles writing raw reviews to a CSV file
type CSVWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, logger: logger}
}

// WriteRawReviews writes a slice of RawReviews to the CSV file, replacing it
func (w *CSVWriter) WriteRawReviews(reviews []*models.RawReview) error {
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range reviews {
		scraped := ""
		if !r.ScrapedAt.IsZero() {
			scraped = r.ScrapedAt.Format(time.RFC3339)
		}
		row := []string{
			r.Category,
			r.ProductSlug,
			r.ProductName,
			r.Description,
			r.Author,
			r.RawStars,
			r.Body,
			r.SourceURL,
			scraped,
		}
		if err := writer.Write(row); err != nil {
			w.logger.Error("Failed to write CSV row for '%s' by '%s': %v", r.ProductSlug, r.Author, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	w.logger.Info("Raw reviews written to: %s (%d rows)", w.filePath, len(reviews))
	return nil
}

// ReadRawReviewsFile opens path and parses it with ReadRawReviews
func ReadRawReviewsFile(path string) ([]*models.RawReview, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()
	return ReadRawReviews(file)
}

// ReadRawReviews parses CSV rows with a header line. Columns are matched by
// header name, so any order works; unknown columns are ignored.
func ReadRawReviews(r io.Reader) ([]*models.RawReview, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index["product_slug"]; !ok {
		return nil, fmt.Errorf("CSV header missing required column 'product_slug'")
	}

	var out []*models.RawReview
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		get := func(col string) string {
			if i, ok := index[col]; ok && i < len(record) {
				return record[i]
			}
			return ""
		}

		raw := &models.RawReview{
			Category:    get("category"),
			ProductSlug: get("product_slug"),
			ProductName: get("product_name"),
			Description: get("description"),
			Author:      get("author"),
			RawStars:    get("raw_stars"),
			Body:        get("body"),
			SourceURL:   get("source_url"),
		}
		if ts := get("scraped_at"); ts != "" {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				raw.ScrapedAt = t
			}
		}
		out = append(out, raw)
	}
	return out, nil
}
