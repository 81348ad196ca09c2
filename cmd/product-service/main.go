package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog-service/internal/cache"
	"github.com/iyhunko/product-catalog-service/internal/config"
	httpAPI "github.com/iyhunko/product-catalog-service/internal/http"
	"github.com/iyhunko/product-catalog-service/internal/http/controller"
	"github.com/iyhunko/product-catalog-service/internal/logger"
	"github.com/iyhunko/product-catalog-service/internal/metrics"
	"github.com/iyhunko/product-catalog-service/internal/repository/sql"
	"github.com/iyhunko/product-catalog-service/internal/service"
	sqspkg "github.com/iyhunko/product-catalog-service/internal/sqs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)
	logger.InitJSONLogger(conf.DebugMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sql.StartDB(ctx, conf.Database)
	handleErr("starting database", err)
	defer db.Close()

	// Create repositories
	productRepository := sql.NewProductRepository(db)
	eventRepository := sql.NewEventRepository(db)
	transactionalRepository := sql.NewTransactionalRepository(db)

	store, closeStore := newCacheStore(ctx, conf)
	defer closeStore()

	var opts []service.Option
	if conf.AWS.Enabled() {
		sqsClient, err := sqspkg.NewClient(ctx, conf.AWS)
		handleErr("creating SQS client", err)
		sqsPublisher := sqspkg.NewPublisher(sqsClient, conf.AWS.SQSQueueURL)

		// Start outbox worker to relay pending events to SQS
		outboxWorker := service.NewOutboxWorker(eventRepository, sqsPublisher, conf.Outbox.Interval)
		go outboxWorker.Start(ctx)
		defer outboxWorker.Stop()

		opts = append(opts, service.WithOutboxEvents())
	} else {
		slog.Info("SQS queue not configured, product notifications are disabled")
	}
	productService := service.NewProductService(productRepository, transactionalRepository, store, conf.Cache, opts...)

	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	ctr := controller.New(db)
	productCtr := controller.NewProductController(productService)
	router := httpAPI.InitRouter(conf, gin.New(), ctr, productCtr)

	httpServer := &http.Server{
		Addr:              ":" + conf.HTTPServer.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("HTTP server starting", slog.String("port", conf.HTTPServer.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			handleErr("listening to HTTP requests", err)
		}
	}()

	metricsServer := metrics.StartMetricsServer(conf)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	slog.Info("Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", slog.Any("err", err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics server shutdown failed", slog.Any("err", err))
	}
}

// newCacheStore picks Redis when REDIS_ADDR is set and an in-process store otherwise.
// An unreachable Redis is not fatal, the cache degrades to misses.
func newCacheStore(ctx context.Context, conf *config.Config) (cache.Store, func()) {
	if !conf.Cache.Enabled {
		slog.Info("cache disabled")
		return cache.NopStore{}, func() {}
	}

	if conf.Redis.Addr != "" {
		store := cache.NewRedisStore(cache.NewRedisClient(conf.Redis))
		if err := store.Ping(ctx); err != nil {
			slog.Warn("redis unreachable, continuing with cache misses", slog.String("addr", conf.Redis.Addr), slog.Any("err", err))
		} else {
			slog.Info("using redis cache", slog.String("addr", conf.Redis.Addr))
		}
		return store, func() {
			if err := store.Close(); err != nil {
				slog.Error("closing redis client failed", slog.Any("err", err))
			}
		}
	}

	memConf := cache.DefaultMemoryConfig()
	memConf.MaxTTL = max(conf.Cache.ProductTTL, conf.Cache.PageTTL)
	slog.Info("using in-memory cache", slog.Int("capacity", memConf.Capacity))
	return cache.NewMemoryStore(memConf), func() {}
}

func handleErr(msg string, err error) {
	if err != nil {
		slog.Error("fatal error", slog.String("while", msg), slog.Any("err", err))
		os.Exit(1)
	}
}
