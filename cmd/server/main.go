package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bankdash/internal/config"
	"bankdash/internal/logging"
	"bankdash/internal/session"
	"bankdash/internal/table"
	"bankdash/internal/web"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"upload_max_file_size", cfg.Upload.MaxFileSize,
		"session_ttl", cfg.Session.TTL,
		"mean_column", cfg.Dashboard.MeanColumn,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Parsed uploads are memoized by content identity; the session store
	// sweeps idle sessions on its own.
	cache := table.NewCache()
	store := session.NewStore(cfg.Session.TTL, cfg.Session.SweepInterval)
	defer store.Close()

	server := web.NewServer(cfg, cache, store)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
