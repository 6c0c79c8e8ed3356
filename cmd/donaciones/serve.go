package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/api"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/auth"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/config"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/metrics"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/photos"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/ratelimit"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/store"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, database, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	st := store.New(database)

	password, err := seedAdmin(ctx, st, cfg.Admin.Username, cfg.Admin.Email)
	if err != nil {
		return err
	}
	if password != "" {
		printAdminResult(os.Stdout, cfg.Admin.Username, cfg.Admin.Email, password)
		fmt.Println()
	}

	secret := cfg.JWT.Secret
	if secret == "" {
		slog.Warn("jwt.secret is not set, using an insecure default")
		secret = auth.InsecureDefaultSecret
	}

	photoStorage, err := newPhotoStorage(ctx, cfg, st)
	if err != nil {
		return err
	}

	opts := api.Options{
		Store:          st,
		Codec:          auth.NewCodec(secret, cfg.JWT.TTL),
		Photos:         photoStorage,
		RateLimit:      cfg.RateLimit.Requests,
		TrustProxy:     cfg.App.TrustedProxy,
		Development:    cfg.IsDevelopment(),
		StaticDir:      cfg.App.StaticDir,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = metrics.New()
	}
	if cfg.RateLimit.Enabled {
		limiter, closeLimiter, err := newLimiter(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeLimiter()
		opts.Limiter = limiter
	}

	server := &http.Server{
		Addr:              cfg.App.Addr,
		Handler:           api.NewRouter(opts),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", cfg.App.Addr, "env", cfg.App.Env)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

func newPhotoStorage(ctx context.Context, cfg config.Config, st *store.Store) (photos.Storage, error) {
	if cfg.Photos.Backend != "s3" {
		return photos.NewDBStorage(st), nil
	}
	s3Storage, err := photos.NewS3Storage(ctx, photos.S3Config{
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Prefix:    cfg.S3.Prefix,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("photo storage ready", "backend", "s3", "bucket", cfg.S3.Bucket)
	return s3Storage, nil
}

func newLimiter(ctx context.Context, cfg config.Config) (ratelimit.Limiter, func(), error) {
	if cfg.RateLimit.Backend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		slog.Info("rate limiter ready", "backend", "redis", "addr", cfg.Redis.Addr)
		return ratelimit.NewRedis(client, cfg.RateLimit.Requests, cfg.RateLimit.Window), func() { client.Close() }, nil
	}

	mem := ratelimit.NewMemory(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	sweepCtx, cancel := context.WithCancel(ctx)
	go mem.Run(sweepCtx, cfg.RateLimit.Window)
	return mem, cancel, nil
}
