package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/designfi/studio/internal/bots"
	"github.com/designfi/studio/internal/cache"
	"github.com/designfi/studio/internal/content"
	"github.com/designfi/studio/internal/dedup"
	"github.com/designfi/studio/internal/market"
	"github.com/designfi/studio/internal/social"
	"github.com/designfi/studio/internal/store"
	"github.com/designfi/studio/pkg/config"
	"github.com/designfi/studio/pkg/logging"
	"github.com/designfi/studio/pkg/telemetry"
)

// The bot runner drives the scheduled jobs on fixed intervals for
// deployments without an external scheduler hitting the cron endpoints.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting DesignFi Studio Bot Runner")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	stores, closeStores, err := store.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer closeStores()

	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	guard := dedup.New(stores.Content, &cfg.Dedup)
	telegram := social.NewTelegram(&cfg.Telegram)
	twitter := social.NewTwitter(&cfg.Twitter)
	marketClient := market.NewClient(redisCache)
	generator := content.New(&cfg.OpenAI, &cfg.Dedup, guard)

	marketBot := bots.NewMarketBot(marketClient, telegram)
	xBot := bots.NewXBot(generator, twitter, telegram, guard, marketClient, cfg.Bots.TweetDelay)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runOnInterval(ctx, "market-update", cfg.Bots.MarketUpdateInterval, marketBot.Run)
	go runOnInterval(ctx, "x-post", cfg.Bots.XPostInterval, xBot.Run)

	logger.Info("Bot runner started",
		zap.Duration("market_update_interval", cfg.Bots.MarketUpdateInterval),
		zap.Duration("x_post_interval", cfg.Bots.XPostInterval))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down bot runner...")
	cancel()
	logger.Info("Bot runner exited")
}

// runOnInterval runs a job immediately and then on every tick until the
// context is cancelled. Job failures are logged and the schedule keeps
// going.
func runOnInterval(ctx context.Context, name string, interval time.Duration, job func(context.Context) error) {
	logger := logging.GetLogger().With(zap.String("job", name))

	if interval <= 0 {
		logger.Warn("Job disabled by non-positive interval")
		return
	}

	run := func() {
		if err := job(ctx); err != nil {
			logger.Error("Job run failed", zap.Error(err))
		}
	}

	run()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}
