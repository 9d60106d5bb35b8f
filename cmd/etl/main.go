package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/ocean-hazard-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/ocean-hazard-etl/internal/adapter/kafka"
	"github.com/couchcryptid/ocean-hazard-etl/internal/adapter/nominatim"
	"github.com/couchcryptid/ocean-hazard-etl/internal/config"
	"github.com/couchcryptid/ocean-hazard-etl/internal/domain"
	"github.com/couchcryptid/ocean-hazard-etl/internal/observability"
	"github.com/couchcryptid/ocean-hazard-etl/internal/pipeline"
	"github.com/couchcryptid/ocean-hazard-etl/internal/sentiment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Initialize geocoder (feature-flagged via NOMINATIM_ENABLED).
	var geocoder domain.Geocoder
	if cfg.NominatimEnabled {
		client := nominatim.NewClient(cfg.NominatimBaseURL, cfg.NominatimTimeout, metrics, logger)
		geocoder = nominatim.NewCachedGeocoder(client, cfg.GeocodeCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("nominatim geocoding enabled", "base_url", cfg.NominatimBaseURL, "cache_size", cfg.GeocodeCacheSize, "timeout", cfg.NominatimTimeout)
	} else {
		logger.Info("nominatim geocoding disabled")
	}

	processor := domain.NewProcessor(
		domain.NewHazardClassifier(),
		domain.NewSentimentScorer(sentiment.NewVaderProvider(), logger),
		domain.NewNormalizer(cfg.DropNonEnglish),
	)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(processor, geocoder, cfg.HighPriorityMinConfidence, metrics, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize, cfg.HighPriorityMinConfidence)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
