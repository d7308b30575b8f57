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

	"github.com/use-agent/deref/api"
	"github.com/use-agent/deref/config"
	"github.com/use-agent/deref/referrer"
	"github.com/use-agent/deref/version"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("deref starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"version", version.Version,
		"blockPrivate", cfg.Referrer.BlockPrivate,
		"chromeTLS", cfg.Referrer.ChromeTLS,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 3. Build the fetcher ────────────────────────────────────────
	fetcher := referrer.NewFetcher(referrer.FetcherConfig{
		UserAgent:    referrer.UserAgent(version.Name, version.Version),
		MaxBodyBytes: cfg.Referrer.MaxBodyBytes,
		BlockPrivate: cfg.Referrer.BlockPrivate,
		ChromeTLS:    cfg.Referrer.ChromeTLS,
	})

	// ── 4. Setup router ─────────────────────────────────────────────
	router, err := api.NewRouter(ctx, cfg, fetcher, version.Version, time.Now())
	if err != nil {
		slog.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	// ── 5. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 6. Graceful shutdown ────────────────────────────────────────
	<-ctx.Done()
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}
	slog.Info("deref stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
