package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/velora/shipping-engine/internal/api"
	"github.com/velora/shipping-engine/internal/core/ports"
	"github.com/velora/shipping-engine/internal/core/service"
	"github.com/velora/shipping-engine/internal/infrastructure/config"
	"github.com/velora/shipping-engine/internal/infrastructure/db/mongo"
	"github.com/velora/shipping-engine/internal/infrastructure/db/redis"
	"github.com/velora/shipping-engine/internal/infrastructure/geo"
	"github.com/velora/shipping-engine/pkg/logger"
)

// @title        Velora Shipping Engine API
// @version      1.0
// @description  Dynamic shipping-cost calculation engine.
// @BasePath     /
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	configRepo := mongo.NewConfigRepository(db)
	calcRepo := mongo.NewCalculationRepository(db)
	if err := configRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure config indexes")
	}
	if err := calcRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure calculation indexes")
	}

	// --- Redis ---
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Distance provider ---
	provider := geo.NewDistanceClient(geo.Config{
		BaseURL: cfg.Geo.BaseURL,
		APIKey:  cfg.Geo.APIKey,
		Timeout: cfg.Geo.Timeout,
	}, log)

	// --- Distance cache backend ---
	// Record-backed by default: recent calculation records double as the
	// cache. The redis backend is the dedicated fast store alternative.
	deps := service.Deps{
		Configs:  configRepo,
		Provider: provider,
		Cache:    calcRepo,
		Audit:    calcRepo,
		Logger:   log,
	}
	if cfg.CacheBackend == "redis" {
		redisCache := redis.NewDistanceCache(rdb)
		deps.Cache = redisCache
		deps.CacheStore = redisCache
	}

	var svc ports.ShippingService = service.NewShippingService(deps)

	// --- HTTP server ---
	e := api.NewRouter(svc, db, rdb, cfg.JWTSecret, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("cache_backend", cfg.CacheBackend).Msg("shipping engine listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
