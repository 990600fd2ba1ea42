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

	"sjsage522/pharmaimport/config"
	"sjsage522/pharmaimport/internal/api"
	"sjsage522/pharmaimport/internal/catalog"
	"sjsage522/pharmaimport/internal/importer"
	"sjsage522/pharmaimport/logger"
	importerrors "sjsage522/pharmaimport/pkg/errors"
	"sjsage522/pharmaimport/services/cache"
	"sjsage522/pharmaimport/services/publisher"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("store", cfg.StoreBackend).
		Str("addr", cfg.ServerAddr).
		Msg("Starting application")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           newRouter(cfg, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ServerAddr).Msg("HTTP server listening")
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serverDone <- err
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
	case err := <-serverDone:
		if err != nil {
			log.Error().Err(err).Msg("HTTP server exited with error")
		}
	}
	cancel()

	// Graceful shutdown, letting in-flight imports finish their fetch
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
}

// Services holds all the initialized services
type Services struct {
	Store     catalog.Store
	Blocklist *cache.PartnerBlocklist
	Publisher publisher.Publisher

	redis *redis.Client
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.redis != nil {
		s.redis.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// The catalog store's Redis connection is shared with the report stream
	if cfg.StoreBackend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, importerrors.NewConfiguration(fmt.Sprintf("redis at %s is unreachable", cfg.RedisAddr), err)
		}
		services.redis = client
		logger.Info("Connected to Redis at %s (DB: %d)", cfg.RedisAddr, cfg.RedisDB)
	}

	switch cfg.StoreBackend {
	case "redis":
		services.Store = catalog.NewRedisStore(services.redis, cfg.RedisKeyPrefix)
	default:
		services.Store = catalog.NewMemoryStore()
	}

	created, err := catalog.EnsureCategories(ctx, services.Store, catalog.DefaultCategories)
	if err != nil {
		services.Cleanup()
		return nil, importerrors.NewStore("", "failed to seed categories", err)
	}
	logger.ForStore(cfg.StoreBackend).Info().
		Int("created", created).
		Msg("Categories ready")

	// Initialize the partner block cache
	if cfg.MemcacheAddr != "" {
		memcache := cache.NewMemcacheService(cfg.MemcacheAddr, 0)
		if err := memcache.Ping(); err != nil {
			// lookups tolerate cache errors, so keep the blocklist wired
			logger.ForCache().Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache is not answering yet")
		}
		services.Blocklist = cache.NewPartnerBlocklist(memcache, cfg.PartnerBlockTime)
		logger.Info("Partner block cache at %s (block time %v)", cfg.MemcacheAddr, cfg.PartnerBlockTime)
	}

	// Initialize publisher
	if cfg.ReportStream != "" {
		var redisPublisher *publisher.RedisPublisher
		if services.redis != nil {
			redisPublisher = publisher.NewRedisPublisherWithClient(services.redis, cfg.ReportStream, cfg.ReportStreamMaxLength)
		} else {
			redisPublisher = publisher.NewRedisPublisher(cfg.RedisAddr, cfg.RedisDB, cfg.ReportStream, cfg.ReportStreamMaxLength)
		}
		if err := redisPublisher.Ping(ctx); err != nil {
			redisPublisher.Close()
			services.Cleanup()
			return nil, importerrors.NewConfiguration(fmt.Sprintf("report stream redis at %s is unreachable", cfg.RedisAddr), err)
		}
		services.Publisher = redisPublisher
		logger.Info("Publishing import reports to stream %s", cfg.ReportStream)
	}

	return services, nil
}

// newImporter wires the importer to the initialized services
func newImporter(cfg *config.Config, services *Services) *importer.Importer {
	return importer.New(services.Store, importer.Config{
		FetchTimeout:       cfg.FetchTimeout,
		FetchRatePerSecond: cfg.FetchRatePerSecond,
		Blocklist:          services.Blocklist,
		Publisher:          services.Publisher,
		DefaultCategory:    cfg.DefaultCategory,
		DefaultMaxRecords:  cfg.DefaultMaxRecords,
		MaxRecordsLimit:    cfg.MaxRecordsLimit,
	})
}

func newRouter(cfg *config.Config, services *Services) http.Handler {
	handler := api.NewHandler(newImporter(cfg, services))
	if services.Blocklist != nil {
		handler.WithBlocklist(services.Blocklist)
	}
	return api.SetupRouter(cfg, handler)
}
