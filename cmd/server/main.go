package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/designfi/studio/internal/api"
	"github.com/designfi/studio/internal/articles"
	"github.com/designfi/studio/internal/bots"
	"github.com/designfi/studio/internal/cache"
	"github.com/designfi/studio/internal/content"
	"github.com/designfi/studio/internal/dedup"
	"github.com/designfi/studio/internal/ledger"
	"github.com/designfi/studio/internal/market"
	"github.com/designfi/studio/internal/payments"
	"github.com/designfi/studio/internal/social"
	"github.com/designfi/studio/internal/store"
	"github.com/designfi/studio/pkg/config"
	"github.com/designfi/studio/pkg/logging"
	"github.com/designfi/studio/pkg/telemetry"
)

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
	logger.Info("Starting DesignFi Studio API Server")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Open the backing store (Postgres or in-memory)
	stores, closeStores, err := store.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer closeStores()

	// Redis cache (optional)
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// Services
	lg := ledger.New(stores.Referrals, &cfg.Referral)
	guard := dedup.New(stores.Content, &cfg.Dedup)
	telegram := social.NewTelegram(&cfg.Telegram)
	twitter := social.NewTwitter(&cfg.Twitter)
	articleSvc := articles.New(stores.Articles, telegram)
	paymentSvc := payments.New(&cfg.Payments, lg)
	marketClient := market.NewClient(redisCache)
	generator := content.New(&cfg.OpenAI, &cfg.Dedup, guard)

	marketBot := bots.NewMarketBot(marketClient, telegram)
	xBot := bots.NewXBot(generator, twitter, telegram, guard, marketClient, cfg.Bots.TweetDelay)

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	router := api.NewRouter(lg, articleSvc, paymentSvc, marketBot, xBot, &cfg.Bots, &cfg.Admin)
	router.SetupRoutes(engine)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: engine,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
