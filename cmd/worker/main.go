package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/thsrbook/config"
	"github.com/Domenick1991/thsrbook/internal/bootstrap"
	"github.com/Domenick1991/thsrbook/internal/cache"
	"github.com/Domenick1991/thsrbook/internal/email"
	"github.com/Domenick1991/thsrbook/internal/kafka"
	"github.com/Domenick1991/thsrbook/internal/repository"
	"github.com/Domenick1991/thsrbook/internal/service/history"
	"github.com/Domenick1991/thsrbook/pkg/logger"
	"github.com/Domenick1991/thsrbook/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	log := logger.NewLogger(cfg.Log.Level)
	defer log.Sync()

	if !cfg.Database.Enabled() {
		log.Fatal("database.host is required by the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect postgres", "error", err)
	}
	defer pool.Close()

	repo := repository.NewReservationRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to create reservation schema", "error", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(cfg.Metrics.Namespace, reg)

	var historyCache history.Cache
	if cfg.Redis.Enabled() {
		redisCache := cache.NewRedisCache(cfg.Redis)
		defer redisCache.Close()
		historyCache = redisCache
	}
	historySvc := history.NewHistoryService(repo, historyCache, m)

	if cfg.Kafka.Enabled() {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.ReservationTopic)
		defer consumer.Close()

		handler := newEventHandler(historySvc, email.NewSender(log), m, log)
		go func() {
			if err := consumer.Consume(ctx, handler); err != nil && ctx.Err() == nil {
				log.Error("Consumer stopped", "error", err)
				stop()
			}
		}()
	} else {
		log.Warn("Kafka is not configured, serving history only")
	}

	if err := bootstrap.Run(ctx, cfg.HTTP, historySvc, reg, log); err != nil {
		log.Fatal("Server error", "error", err)
	}
	log.Info("Worker stopped")
}
