package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/stridekart/catalog/internal/config"
	"github.com/stridekart/catalog/internal/event"
	handler "github.com/stridekart/catalog/internal/handler/http"
	"github.com/stridekart/catalog/internal/imagestore"
	"github.com/stridekart/catalog/internal/migrations"
	"github.com/stridekart/catalog/internal/repository/postgres"
	redisrepo "github.com/stridekart/catalog/internal/repository/redis"
	"github.com/stridekart/catalog/internal/service"
	"github.com/stridekart/catalog/pkg/database"
	"github.com/stridekart/catalog/pkg/health"
	"github.com/stridekart/catalog/pkg/kafka"
	"github.com/stridekart/catalog/pkg/tracing"
)

// App wires together all dependencies of the catalog service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	pool            *pgxpool.Pool
	redis           *goredis.Client
	producer        *kafka.Producer
	server          *http.Server
	tracingShutdown func(context.Context) error
}

// New builds the application with all its dependencies connected.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	tracingShutdown, err := tracing.InitTracer(ctx, cfg.TracerConfig())
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisClientConfig())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(kafka.DefaultProducerConfig(cfg.Kafka.Brokers), log)
	}

	repo := postgres.NewProductRepository(pool)
	cache := redisrepo.NewTopProductsCache(redisClient, cfg.TopCacheTTL)
	events := event.NewPublisher(producer, cfg.Kafka.Topic, log)

	var images imagestore.ImageStore = imagestore.Noop{}
	if cfg.MediaServiceURL != "" {
		images = imagestore.NewDefault(cfg.MediaServiceURL, log)
	}

	catalogSvc := service.NewCatalogService(repo, cache, images, events, log)
	reviewSvc := service.NewReviewService(repo, cache, events, log)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	router := handler.NewRouter(
		handler.NewProductHandler(catalogSvc, log),
		handler.NewReviewHandler(reviewSvc, log),
		healthHandler,
		log,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          log,
		pool:            pool,
		redis:           redisClient,
		producer:        producer,
		server:          server,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		return a.Shutdown()
	}
}

// Shutdown drains in-flight requests and closes all connections.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(ctx)

	if a.producer != nil {
		if cerr := a.producer.Close(); cerr != nil {
			a.logger.Warn("kafka producer close failed", slog.String("error", cerr.Error()))
		}
	}

	if cerr := a.redis.Close(); cerr != nil {
		a.logger.Warn("redis close failed", slog.String("error", cerr.Error()))
	}

	a.pool.Close()

	if a.tracingShutdown != nil {
		if cerr := a.tracingShutdown(ctx); cerr != nil {
			a.logger.Warn("tracer shutdown failed", slog.String("error", cerr.Error()))
		}
	}

	return err
}
