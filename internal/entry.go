// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/kenaz-distill/internal/api"
	"github.com/starford/kenaz-distill/internal/distiller"
	"github.com/starford/kenaz-distill/internal/mcpserver"
	"github.com/starford/kenaz-distill/internal/noteservice"
	"github.com/starford/kenaz-distill/internal/vault"
)

// Version is reported by the MCP server.
const Version = "0.1.0"

func newApplication(opts []Option) (*application, error) {
	app := &application{out: os.Stdout, logOut: os.Stderr}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// service opens the vault and wires the distiller.
func (a *application) service(logger *slog.Logger) (*noteservice.Service, error) {
	repo, err := vault.Open(a.config.Vault.Path, logger)
	if err != nil {
		return nil, err
	}
	dopts := []distiller.Option{distiller.WithLogger(logger)}
	if a.provider != nil {
		dopts = append(dopts, distiller.WithProvider(a.provider))
	}
	d := distiller.New(a.config.LLM.Distiller(), dopts...)
	return noteservice.NewService(repo, d), nil
}

// Ask loads the vault, filters it by query, and writes the distilled answer.
// Only a missing vault is reported as an error; every other failure ends up
// in the printed text.
func Ask(ctx context.Context, query string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := slog.New(slog.NewTextHandler(app.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	svc, err := app.service(logger)
	if err != nil {
		return fmt.Errorf("load vault: %w", err)
	}

	ans := svc.Ask(ctx, query)
	out := app.out

	fmt.Fprintf(out, "Loaded %d notes.\n", ans.Loaded)
	fmt.Fprintf(out, "Found %d relevant notes.\n", len(ans.Matches))
	if len(ans.Matches) == 0 {
		fmt.Fprintln(out, "No relevant notes found. Try a different keyword.")
		return nil
	}
	for _, m := range noteservice.Describe(ans.Matches, query) {
		fmt.Fprintf(out, "  - %s (%s)\n", m.Title, m.Path)
	}
	fmt.Fprintf(out, "\n=== Distilled insights for: '%s' ===\n\n%s\n", query, ans.Text)
	return nil
}

// ServeMCP runs the MCP server on stdin/stdout until the client disconnects.
func ServeMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	// stdout carries the protocol, so logs always go to the configured log output.
	logger := slog.New(slog.NewTextHandler(app.logOut, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))

	svc, err := app.service(logger)
	if err != nil {
		return fmt.Errorf("load vault: %w", err)
	}

	logger.Info("MCP server starting", slog.String("vault_path", app.config.Vault.Path))
	return mcpserver.New(svc, Version).ServeStdio()
}

// Serve starts the HTTP API with the given options.
func Serve(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.out, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("model", cfg.LLM.Model),
		slog.Bool("llm_enabled", cfg.LLM.APIKey != "" || app.provider != nil),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, err := app.service(logger)
	if err != nil {
		return fmt.Errorf("load vault: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newHTTPHandler(svc, cfg),
		ReadHeaderTimeout: cfg.App.HTTP.ReadHeaderTimeout,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.HTTP.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// newHTTPHandler builds the root router: health checks plus the API under /api.
func newHTTPHandler(svc *noteservice.Service, cfg *Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	health := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	}
	r.Get("/health/live", health)
	r.Get("/health/ready", health)

	r.Mount("/api", api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token))
	return r
}
