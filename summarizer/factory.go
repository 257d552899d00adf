package summarizer

import (
	"context"
	"fmt"
	"strings"

	"product-reviews/config"
	"product-reviews/services"
)

// NewFromConfig builds the summarizer selected by SUMMARY_PROVIDER.
// "none" (or empty) yields Disabled, so pages always show the fallback text.
func NewFromConfig(ctx context.Context, cfg *config.Config) (services.Summarizer, error) {
	var provider Provider
	switch name := strings.ToLower(strings.TrimSpace(cfg.SummaryProvider)); name {
	case "", "none":
		return Disabled{}, nil
	case "gemini":
		p, err := NewGenAIProvider(ctx, cfg.GeminiAPIKey, cfg.SummaryModel)
		if err != nil {
			return nil, err
		}
		provider = p
	case "openai":
		provider = NewOpenAIProvider(cfg.SummaryModel, cfg.OpenAIAPIKey)
	case "ollama":
		provider = NewOllamaProvider(cfg.OllamaURL, cfg.SummaryModel)
	default:
		return nil, fmt.Errorf("unknown summary provider %q (want gemini, openai, ollama or none)", name)
	}

	resilient := NewResilientProviderWithConfig(provider, ResilienceConfig{
		MaxRetries: cfg.MaxRetries,
		Timeout:    cfg.SummaryTimeout,
	})
	return NewProductSummarizer(resilient), nil
}
