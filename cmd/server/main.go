package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealscope/backend/config"
	httpDelivery "github.com/dealscope/backend/internal/delivery/http"
	"github.com/dealscope/backend/internal/domain"
	"github.com/dealscope/backend/internal/infrastructure/cache"
	"github.com/dealscope/backend/internal/infrastructure/catalog"
	"github.com/dealscope/backend/internal/infrastructure/logging"
	"github.com/dealscope/backend/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "dealscope-backend",
	})

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Str("catalog_source", cfg.Catalog.Source).
		Msg("starting DealScope backend")

	cacheRepo, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	source, closeSource, err := newCatalogSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	debug := cfg.Recommend.Debug || cfg.Server.Environment == "development"
	service := usecase.NewCatalogService(
		source,
		cacheRepo,
		usecase.NewDealScorer(),
		usecase.NewRecommender(usecase.RecommenderConfig{EnableDebugLogging: debug}, logger),
		usecase.NewQueryParser(usecase.QueryParserConfig{EnableDebugLogging: debug}, logger),
		usecase.CatalogServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			DefaultLimit:       cfg.Recommend.DefaultLimit,
			EnableDebugLogging: debug,
		},
		logger,
	)

	metrics := httpDelivery.NewMetrics()

	// Warm the snapshot; a failure here is retried lazily on first request
	if snap, err := service.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial catalog load failed")
	} else {
		metrics.ObserveCatalog(len(snap.Products))
	}

	if cfg.Catalog.RefreshInterval > 0 {
		go refreshLoop(ctx, service, metrics, cfg.Catalog.RefreshInterval, logger)
	}

	handler := httpDelivery.NewHandler(service, metrics, version, logger)
	router := httpDelivery.SetupRouter(cfg, handler, metrics, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, func(), error) {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, "dealscope:")
		if err != nil {
			return nil, nil, fmt.Errorf("init redis cache: %w", err)
		}
		return redisCache, func() { _ = redisCache.Close() }, nil
	default:
		memoryCache := cache.NewMemoryCache()
		return memoryCache, func() { _ = memoryCache.Close() }, nil
	}
}

func newCatalogSource(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (domain.CatalogSource, func(), error) {
	switch cfg.Catalog.Source {
	case "http":
		client := catalog.NewFeedClient(cfg.Catalog.APIKey, cfg.Catalog.URL, cfg.RateLimit.Feed, logger)
		client.SetDebug(cfg.Server.Environment == "development")
		return client, func() {}, nil
	case "postgres":
		db, err := catalog.OpenPostgres(ctx, cfg.Catalog.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return catalog.NewPostgresSource(db, logger), func() { _ = db.Close() }, nil
	default:
		return catalog.NewFileSource(cfg.Catalog.Path, logger), func() {}, nil
	}
}

func refreshLoop(ctx context.Context, service *usecase.CatalogService, metrics *httpDelivery.Metrics, interval time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, err := service.Refresh(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("scheduled catalog refresh failed")
				continue
			}
			metrics.ObserveCatalog(len(snap.Products))
		}
	}
}
