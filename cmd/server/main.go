package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	specpkg "github.com/daap14/quotator/api"
	"github.com/daap14/quotator/internal/api"
	"github.com/daap14/quotator/internal/catalog"
	"github.com/daap14/quotator/internal/config"
	"github.com/daap14/quotator/internal/crawler"
	"github.com/daap14/quotator/internal/quote"
	"github.com/daap14/quotator/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	openCtx, cancelOpen := context.WithTimeout(context.Background(), 30*time.Second)
	s, err := store.Open(openCtx, cfg.StoreDriver, cfg.StoreDSN)
	cancelOpen()
	if err != nil {
		slog.Error("failed to open store", "error", err, "driver", cfg.StoreDriver)
		os.Exit(1)
	}
	slog.Info("store opened", "driver", s.Driver())

	router := api.NewRouter(api.RouterDeps{
		Catalog:     catalog.NewSQLRepository(s),
		Quotes:      quote.NewSQLRepository(s),
		Crawler:     crawler.NewClient(cfg.CrawlerURL, cfg.CrawlerTimeout),
		DBPinger:    s,
		Version:     cfg.Version,
		OpenAPISpec: specpkg.OpenAPISpec,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting quotator server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		exitCode = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		exitCode = 1
	}

	if err := s.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
		exitCode = 1
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
