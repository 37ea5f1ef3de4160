// Package server wires the store, services and HTTP routes together and
// runs the API until the process is asked to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/config"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger *log.Logger
	store  *database.Store
	server *http.Server
}

// NewApp connects the configured store and builds the HTTP server
func NewApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	gin.SetMode(cfg.GinMode)

	store, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	// Initialize AI service
	var generator services.TaskGenerator
	if cfg.OpenAIAPIKey != "" {
		generator = services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		logger.Warn("OPENAI_API_KEY is not set, task generation is disabled")
	}

	router := NewRouter(RouterConfig{
		Store:       store,
		Tokens:      auth.NewTokenIssuer([]byte(cfg.JWTSecret), constants.TokenValidity),
		Generator:   generator,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	return &App{
		logger: logger,
		store:  store,
		server: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run serves until SIGINT/SIGTERM or until ctx is cancelled, then drains
// in-flight requests and closes the store
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", app.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", app.server.Addr, err)
	}

	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("Server starting", "addr", ln.Addr().String())
		if err := app.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		app.logger.Info("Shutting down server...")
	case serveErr = <-errCh:
		app.logger.Error("Server stopped", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("Server shutdown failed", "error", err)
	}
	if err := app.store.Close(shutdownCtx); err != nil {
		app.logger.Error("Failed to close store", "error", err)
	}

	app.logger.Info("Server stopped")
	return serveErr
}
