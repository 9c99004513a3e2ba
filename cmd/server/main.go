// Package main provides the API server entry point for the listing
// synchronization service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/stevenovak55/bmnboston-sub015/internal/api"
	"github.com/stevenovak55/bmnboston-sub015/internal/cdn"
	"github.com/stevenovak55/bmnboston-sub015/internal/config"
	apperrors "github.com/stevenovak55/bmnboston-sub015/internal/errors"
	"github.com/stevenovak55/bmnboston-sub015/internal/geocode"
	"github.com/stevenovak55/bmnboston-sub015/internal/logging"
	"github.com/stevenovak55/bmnboston-sub015/internal/service"
	"github.com/stevenovak55/bmnboston-sub015/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger(
		logging.ParseLogLevel(cfg.Logging.Level),
		logging.ParseLogFormat(cfg.Logging.Format),
	)
	logger.WithFields(map[string]any{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	apperrors.SetDebugMode(cfg.Debug)

	logger.Info("Connecting to Postgres...")
	postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	logger.Info("Running database migrations...")
	if err := storage.RunMigrations(&cfg.Database.Postgres); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	logger.Info("Connecting to Redis...")
	redisCache, err := storage.NewRedisCache(&cfg.Database.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisCache.Close()

	cacheService := storage.NewCacheService(redisCache, cfg.Cache.ListingTTL, cfg.Cache.GeocodeTTL)

	resolver := geocode.NewResolver(cacheService, logger, buildProviders(cfg, logger)...)
	resolver.SetServiceArea(geocode.Bounds{
		MinLat: cfg.Geocoding.BoundsMinLat,
		MaxLat: cfg.Geocoding.BoundsMaxLat,
		MinLng: cfg.Geocoding.BoundsMinLng,
		MaxLng: cfg.Geocoding.BoundsMaxLng,
	})

	var subscribers []service.Subscriber
	subscribers = append(subscribers, service.NewCacheInvalidator(cacheService, logger))
	if cfg.CDN.Enabled {
		subscribers = append(subscribers, service.NewCDNPurger(cdn.NewPurger(cfg.CDN.PurgeURL, logger)))
	}
	dispatcher := service.NewDispatcher(logger, subscribers...)

	tableStore := storage.NewTableStore()
	engine := service.NewSyncEngine(
		postgres,
		tableStore,
		resolver,
		dispatcher,
		cfg.Geocoding.DefaultLatitude,
		cfg.Geocoding.DefaultLongitude,
		cfg.Geocoding.Country,
		cfg.Listings.DetailURLBase,
		logger,
	)
	archiveManager := service.NewArchiveManager(postgres, tableStore, dispatcher, engine.DetailPath, logger)

	listingRepo := storage.NewListingRepository(postgres)
	photoRepo := storage.NewPhotoRepository(postgres)
	allocator := storage.NewIDAllocator(postgres, cfg.Listings.ExternalIDThreshold)
	formatter := service.NewFormatter(cfg.Listings.DetailURLBase)

	listingService := service.NewListingService(
		listingRepo, allocator, engine, archiveManager, formatter, cacheService, logger)
	mediaService := service.NewMediaService(photoRepo, engine, listingRepo, logger)

	server := api.NewServer(&api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, listingService, mediaService, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	// Let in-flight invalidation events finish before connections close.
	dispatcher.Wait()

	logger.Info("Server exited")
}

// buildProviders orders geocoding providers so the configured primary is
// tried first and the other acts as fallback. Google is only included when
// an API key is configured.
func buildProviders(cfg *config.Config, logger *logging.Logger) []geocode.Provider {
	nominatim := geocode.NewNominatimProvider(cfg.Geocoding.RequestTimeout, cfg.Geocoding.RequestsPerSec)

	if cfg.Geocoding.GoogleAPIKey == "" {
		if cfg.Geocoding.Provider == "google" {
			logger.Warn("Google selected as geocoding provider but no API key configured, using Nominatim only")
		}
		return []geocode.Provider{nominatim}
	}

	google := geocode.NewGoogleProvider(cfg.Geocoding.GoogleAPIKey, cfg.Geocoding.RequestTimeout)
	if cfg.Geocoding.Provider == "google" {
		return []geocode.Provider{google, nominatim}
	}
	return []geocode.Provider{nominatim, google}
}
