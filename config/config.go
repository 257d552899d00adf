package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application-level configuration
type Config struct {
	// Storage: DatabaseURL wins over SQLitePath, which wins over CatalogPath.
	// With none set the embedded sample catalog is served.
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH"`
	CatalogPath string `env:"CATALOG_PATH"`

	// Scraper
	MaxConcurrency    int `env:"MAX_CONCURRENCY" envDefault:"3"`
	RateLimitDelay    int `env:"RATE_LIMIT_DELAY_MS" envDefault:"2000"` // milliseconds between page loads
	MaxRetries        int `env:"MAX_RETRIES" envDefault:"3"`
	ReviewsPerProduct int `env:"REVIEWS_PER_PRODUCT" envDefault:"50"`

	// Output
	CSVFilePath string `env:"CSV_FILE_PATH" envDefault:"output/raw_reviews.csv"`

	// Summary collaborator
	SummaryProvider string        `env:"SUMMARY_PROVIDER" envDefault:"none"`
	SummaryModel    string        `env:"SUMMARY_MODEL"`
	SummaryTimeout  time.Duration `env:"SUMMARY_TIMEOUT" envDefault:"20s"`
	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
	OllamaURL       string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from environment variables, falling back to defaults
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}
	return cfg, nil
}
