package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"realtyflow/applog"
	"realtyflow/assign"
	"realtyflow/auth"
	"realtyflow/cache"
	"realtyflow/config"
	"realtyflow/db"
	"realtyflow/favorite"
	"realtyflow/httpapi"
	"realtyflow/inquiry"
	"realtyflow/property"
	"realtyflow/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := applog.New("realtyflow-api", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer pool.Close()

	imageStore, uploadDir, err := newImageStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init image store")
	}

	strategy, err := assign.FromName(cfg.Inquiry.AssignmentStrategy)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid assignment strategy")
	}

	authService := auth.NewService(auth.NewRepository(pool), cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	propertyService := property.NewService(property.NewRepository(pool))
	inquiryService := inquiry.NewService(pool, inquiry.NewRepository(pool), strategy).
		WithNotifier(inquiry.NewLogNotifier(logger))
	favoriteService := favorite.NewService(favorite.NewRepository(pool))

	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer redisClient.Close()
		propertyService.WithCache(cache.NewListingCache(redisClient, cfg.Redis.CacheTTL, logger))
	}

	handlers := httpapi.NewHandlerSet(logger, authService, propertyService, inquiryService, favoriteService, imageStore)
	server := httpapi.NewHTTPServer(cfg, logger, handlers, uploadDir)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(server.Start)

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		return
	}
	logger.Info().Msg("server exited cleanly")
}

// newImageStore picks the storage driver. The disk driver also returns the
// directory so the server can mount it at /uploads; the minio driver serves
// uploads from the bucket instead.
func newImageStore(ctx context.Context, cfg config.StorageConfig) (storage.ImageStore, string, error) {
	if cfg.Driver == "minio" {
		store, err := storage.NewObjectStore(storage.ObjectStoreConfig{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Region:    cfg.Region,
			Bucket:    cfg.Bucket,
			UseSSL:    cfg.UseSSL,
		})
		if err != nil {
			return nil, "", err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, "", err
		}
		return store, "", nil
	}

	store, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}
