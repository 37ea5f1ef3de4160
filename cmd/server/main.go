package main

import (
	"context"
	"os"

	"github.com/yukikurage/todo-api/internal/config"
	"github.com/yukikurage/todo-api/internal/logging"
	"github.com/yukikurage/todo-api/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, logging.Options{}).Fatal("Failed to load configuration", "error", err)
	}

	logger := logging.New(os.Stderr, logging.Options{
		Level: cfg.LogLevel,
		JSON:  cfg.IsRelease(),
	})

	ctx := context.Background()

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to start", "error", err)
	}

	if err := app.Run(ctx); err != nil {
		logger.Fatal("Server error", "error", err)
	}
}
