package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/dataprep/internal/config"
	"github.com/JonMunkholm/dataprep/internal/describe"
	"github.com/JonMunkholm/dataprep/internal/logging"
	"github.com/JonMunkholm/dataprep/internal/session"
	"github.com/JonMunkholm/dataprep/internal/store"
	"github.com/JonMunkholm/dataprep/internal/transform"
	"github.com/JonMunkholm/dataprep/internal/web"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("store connected", "driver", cfg.Store.Driver)

	registry := transform.NewRegistry()
	engine := transform.NewEngine(registry)
	slog.Info("transformation functions registered", "functions", registry.Names())

	sessions := session.NewManager(cfg.Session.TTL)
	describer := describe.New(describe.Config{
		APIKey:     cfg.Describe.APIKey,
		Model:      cfg.Describe.Model,
		MaxTokens:  cfg.Describe.MaxTokens,
		Timeout:    cfg.Describe.Timeout,
		SampleSize: cfg.Describe.SampleSize,
	})
	if cfg.Describe.APIKey == "" {
		slog.Info("no API key configured, column descriptions disabled")
	}

	server := web.NewServer(cfg, st, engine, sessions, describer)

	// Expired sessions are swept in the background until shutdown.
	janitorDone := make(chan struct{})
	go sessions.Janitor(cfg.Session.SweepInterval, janitorDone)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		close(janitorDone)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
