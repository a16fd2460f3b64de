package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dcastano/brandpulse-backend/api/routes"
	"github.com/dcastano/brandpulse-backend/internal/digest"
	"github.com/dcastano/brandpulse-backend/internal/insights"
	"github.com/dcastano/brandpulse-backend/internal/insights/query"
	"github.com/dcastano/brandpulse-backend/pkg/config"
	"github.com/dcastano/brandpulse-backend/pkg/db"
	"github.com/dcastano/brandpulse-backend/pkg/logger"
	"github.com/dcastano/brandpulse-backend/pkg/metrics"
	"github.com/dcastano/brandpulse-backend/pkg/migrate"
	"github.com/dcastano/brandpulse-backend/pkg/pubsub"
	"github.com/dcastano/brandpulse-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	fetcherMetrics := metrics.NewFetcherMetrics(registry)

	fetcher, err := query.NewStore(dbClient, cfg.Rankings, fetcherMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create query store", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		fetcher = query.NewCachedFetcher(fetcher, redisClient, cfg.Cache.TTL, fetcherMetrics)
	}

	insightsService, err := insights.NewService(fetcher, cfg.Rankings, logg, fetcherMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create insights service", err)
		os.Exit(1)
	}

	var pubsubClient *pubsub.Client
	var publisher digest.Publisher
	if cfg.GCP.ProjectID != "" {
		pubsubClient, err = pubsub.NewClient(context.Background(), cfg.GCP, config.PubSubConfig{DigestTopic: cfg.PubSub.DigestTopic}, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer pubsubClient.Close()

		publisher, err = digest.NewPubSubPublisher(pubsubClient.DigestPublisher())
		if err != nil {
			logg.Error(context.Background(), "failed to create digest publisher", err)
			os.Exit(1)
		}
	}

	digestService, err := digest.NewService(insightsService, publisher, digest.NewRepository(dbClient.DB()), logg, 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create digest service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"brands": cfg.Brands.Normalized(),
	})
	logg.Info(ctx, "starting api server")

	deps := routes.Deps{
		Insights: insightsService,
		Digest:   digestService,
		DB:       dbClient,
		Registry: registry,
	}
	if redisClient != nil {
		deps.Redis = redisClient
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
