package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"product-reviews/config"
	"product-reviews/models"
	"product-reviews/utils"
)

func main() {
	// ================== Bootstrap ====================
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
		os.Exit(1)
	}
	logger := utils.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = newRootCmd(cfg, logger).ExecuteContext(ctx)
	stop()
	logger.Sync()

	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			fmt.Fprintln(os.Stderr, "product not found")
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
