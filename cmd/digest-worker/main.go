package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/dcastano/brandpulse-backend/internal/digest"
	"github.com/dcastano/brandpulse-backend/pkg/config"
	"github.com/dcastano/brandpulse-backend/pkg/db"
	"github.com/dcastano/brandpulse-backend/pkg/logger"
	"github.com/dcastano/brandpulse-backend/pkg/pubsub"
	"github.com/dcastano/brandpulse-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "digest-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "digest-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer pubsubClient.Close()

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		requireResource(ctx, logg, "redis", err)
		defer redisClient.Close()
	}

	digestConsumer, err := digest.NewConsumer(
		pubsubClient.DigestSubscription(),
		cfg.Discord.WebhookURL,
		redisClient,
		digest.NewRepository(dbClient.DB()),
		logg,
	)
	requireResource(ctx, logg, "digest consumer", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":          cfg.App.Env,
		"subscription": cfg.PubSub.DigestSubscription,
	})
	logg.Info(runCtx, "digest worker ready")

	if err := digestConsumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "digest worker not working", err)
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
