package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"github.com/onnwee/storefront-admin/internal/api"
	"github.com/onnwee/storefront-admin/internal/config"
	"github.com/onnwee/storefront-admin/internal/errorreporting"
	"github.com/onnwee/storefront-admin/internal/logger"
	"github.com/onnwee/storefront-admin/internal/server"
	"github.com/onnwee/storefront-admin/internal/store"
	"github.com/onnwee/storefront-admin/internal/tracing"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Init("info")
		logger.Warn("No .env file found, falling back to system env")
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	if err := errorreporting.Init(cfg.SentryEnvironment); err != nil {
		logger.Warn("Sentry init failed, continuing without error reporting", "error", err)
	}
	defer sentry.Flush(2 * time.Second)

	shutdownTracing, err := tracing.Init("storefront-admin")
	if err != nil {
		logger.Warn("Tracing init failed, continuing without traces", "error", err)
	}

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL not set")
		os.Exit(1)
	}

	st, err := store.Init(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Store init failed", "error", err)
		os.Exit(1)
	}

	srv, err := server.New(cfg, st)
	if err != nil {
		logger.Error("Server init failed", "error", err)
		os.Exit(1)
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv.Start(ctx)

	router := api.NewRouter(cfg, api.Deps{
		Store:       srv.Store,
		Cache:       srv.Cache,
		Invalidator: srv.Invalidator,
		Stats:       srv.Stats,
	})

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server listening", "addr", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}

	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}
}
