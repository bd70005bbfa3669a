package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/hurricane-viewer/internal/adapter/chart"
	httpadapter "github.com/couchcryptid/hurricane-viewer/internal/adapter/http"
	"github.com/couchcryptid/hurricane-viewer/internal/adapter/mapbox"
	"github.com/couchcryptid/hurricane-viewer/internal/config"
	"github.com/couchcryptid/hurricane-viewer/internal/dataset"
	"github.com/couchcryptid/hurricane-viewer/internal/observability"
	"github.com/couchcryptid/hurricane-viewer/internal/viewer"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

func main() {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := dataset.NewLoader(cfg.HeaderLines, clock, logger, metrics)
	table, _, err := loader.Load(ctx, cfg.DataPath)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	// Map renderers, tried in order (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var renderers []viewer.TrackRenderer
	if cfg.MapboxEnabled {
		renderers = append(renderers, mapbox.NewClient(cfg.MapboxToken, cfg.MapboxStyle, cfg.MapWidth, cfg.MapHeight, cfg.MapboxTimeout, logger))
		metrics.MapboxEnabled.Set(1)
		logger.Info("mapbox static maps enabled", "style", cfg.MapboxStyle, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox static maps disabled")
	}
	renderers = append(renderers, chart.NewRenderer(cfg.MapWidth, cfg.MapHeight))

	v := viewer.New(table, renderers, clock, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, v, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
