package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dcastano/brandpulse-backend/internal/cron"
	"github.com/dcastano/brandpulse-backend/internal/digest"
	"github.com/dcastano/brandpulse-backend/internal/insights"
	"github.com/dcastano/brandpulse-backend/internal/insights/query"
	"github.com/dcastano/brandpulse-backend/pkg/config"
	"github.com/dcastano/brandpulse-backend/pkg/db"
	"github.com/dcastano/brandpulse-backend/pkg/logger"
	"github.com/dcastano/brandpulse-backend/pkg/metrics"
	"github.com/dcastano/brandpulse-backend/pkg/pubsub"
	"github.com/dcastano/brandpulse-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if !cfg.Scheduler.Enabled {
		logg.Info(ctx, "scheduler disabled, nothing to do")
		return
	}

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, config.PubSubConfig{DigestTopic: cfg.PubSub.DigestTopic}, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer pubsubClient.Close()

	registry := prometheus.NewRegistry()
	fetcherMetrics := metrics.NewFetcherMetrics(registry)
	cronMetrics := metrics.NewCronJobMetrics(registry)

	fetcher, err := query.NewStore(dbClient, cfg.Rankings, fetcherMetrics)
	requireResource(ctx, logg, "query store", err)

	insightsService, err := insights.NewService(fetcher, cfg.Rankings, logg, fetcherMetrics)
	requireResource(ctx, logg, "insights service", err)

	publisher, err := digest.NewPubSubPublisher(pubsubClient.DigestPublisher())
	requireResource(ctx, logg, "digest publisher", err)

	digestService, err := digest.NewService(insightsService, publisher, digest.NewRepository(dbClient.DB()), logg, 0)
	requireResource(ctx, logg, "digest service", err)

	digestJob, err := cron.NewDigestPublishJob(digestService, cfg.Brands.Normalized(), cfg.Scheduler.Preset, logg)
	requireResource(ctx, logg, "digest job", err)

	var lock cron.Lock = cron.NoopLock{}
	if cfg.Cache.Enabled {
		redisClient, err := redis.New(context.Background(), cfg.Redis)
		requireResource(ctx, logg, "redis", err)
		defer redisClient.Close()

		redisLock, err := cron.NewRedisLock(redisClient, "bp:cron:digest", cfg.Scheduler.LockTTL)
		requireResource(ctx, logg, "cron lock", err)
		lock = redisLock
	}

	cronService, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(digestJob),
		Lock:     lock,
		Metrics:  cronMetrics,
		Interval: cfg.Scheduler.Interval,
	})
	requireResource(ctx, logg, "cron service", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Scheduler.Interval.String(),
		"preset":   cfg.Scheduler.Preset,
	})
	logg.Info(runCtx, "cron worker ready")

	if err := cronService.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "cron worker not working", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
