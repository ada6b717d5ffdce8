package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pricelens/backend/config"
	httpDelivery "github.com/pricelens/backend/internal/delivery/http"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/cache"
	"github.com/pricelens/backend/internal/infrastructure/catalog"
	"github.com/pricelens/backend/internal/infrastructure/metrics"
	"github.com/pricelens/backend/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := config.SetupLogger(cfg.Log)
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Dur("cacheTTL", cfg.Cache.TTL).
		Msg("starting PriceLens backend v1.0.0")

	// Initialize infrastructure dependencies
	source, err := catalog.NewSource(cfg.Catalog.Source, cfg.Catalog.Location(), cfg.Catalog.Timeout, cfg.Catalog.MaxBytes)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid catalog source")
	}

	var resultCache domain.CacheRepository
	if cfg.Cache.Type == "memory" {
		memoryCache := cache.NewMemoryCache()
		defer memoryCache.Close()
		resultCache = memoryCache
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(registry)

	// Initialize usecase layer
	comparisonService := usecase.NewComparisonService(
		source,
		resultCache,
		recorder,
		logger,
		usecase.ComparisonServiceConfig{
			CacheTTL:            cfg.Cache.TTL,
			LoadTimeout:         cfg.Catalog.Timeout + 5*time.Second,
			RecommendationLimit: cfg.Search.RecommendationLimit,
			SuggestionLimit:     cfg.Search.SuggestionLimit,
		},
	)

	// A failed initial load leaves the catalog empty; POST /api/v1/catalog/reload retries
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Catalog.Timeout+5*time.Second)
	if err := comparisonService.LoadCatalog(loadCtx); err != nil {
		logger.Error().Err(err).Str("source", source.Describe()).Msg("initial catalog load failed, serving an empty catalog")
	}
	cancelLoad()

	limiter := httpDelivery.NewRateLimiter(cfg.RateLimit.PerIP, cfg.RateLimit.Burst)
	defer limiter.Close()

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(comparisonService, httpDelivery.NewPresenter(cfg.Display), logger)
	router := httpDelivery.SetupRouter(cfg, handler, limiter, logger, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("bye")
}
