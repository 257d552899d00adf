package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

// RetryWithBackoff runs fn up to maxAttempts times with exponential backoff
// starting at initialDelay. Each failure is logged.
func RetryWithBackoff(ctx context.Context, maxAttempts int, initialDelay time.Duration, fn func(ctx context.Context) error, logger *Logger) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	r := retry.New[struct{}](retry.Config{
		MaxAttempts:   maxAttempts,
		InitialDelay:  initialDelay,
		BackoffPolicy: retry.BackoffExponential,
	})

	attempt := 0
	_, err := r.Do(ctx, func(ctx context.Context) (struct{}, error) {
		attempt++
		if err := fn(ctx); err != nil {
			logger.Warn("Attempt %d/%d failed: %v", attempt, maxAttempts, err)
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("all %d attempts failed, last error: %w", maxAttempts, err)
	}
	return nil
}
