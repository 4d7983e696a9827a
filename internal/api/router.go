// Package api exposes the studio's REST surface.
package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/designfi/studio/internal/articles"
	"github.com/designfi/studio/internal/bots"
	"github.com/designfi/studio/internal/ledger"
	"github.com/designfi/studio/internal/payments"
	"github.com/designfi/studio/pkg/config"
	"github.com/designfi/studio/pkg/logging"
)

// Router sets up API routes
type Router struct {
	ledger    *ledger.Ledger
	articles  *articles.Service
	payments  *payments.Service
	marketBot *bots.MarketBot
	xBot      *bots.XBot
	bots      *config.BotsConfig
	admin     *config.AdminConfig
	logger    *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(lg *ledger.Ledger, ar *articles.Service, pay *payments.Service, marketBot *bots.MarketBot, xBot *bots.XBot, botsCfg *config.BotsConfig, adminCfg *config.AdminConfig) *Router {
	return &Router{
		ledger:    lg,
		articles:  ar,
		payments:  pay,
		marketBot: marketBot,
		xBot:      xBot,
		bots:      botsCfg,
		admin:     adminCfg,
		logger:    logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	api := engine.Group("/api")
	{
		api.GET("/referrals", r.getReferral)
		api.POST("/referrals", r.createReferral)

		api.GET("/articles", r.listArticles)
		api.GET("/articles/:id", r.getArticle)
		api.POST("/articles", r.createArticle)
		api.DELETE("/articles/:id", r.requireAdmin(), r.deleteArticle)

		api.POST("/solana-pay", r.createPayment)
		api.GET("/solana-pay", r.getPayment)
		api.POST("/solana-pay/confirm", r.confirmPayment)

		api.POST("/admin/verify", r.adminVerify)

		cron := api.Group("/cron", r.requireCronSecret())
		{
			cron.GET("/market-update", r.runMarketUpdate)
			cron.GET("/x-bot", r.runXBot)
		}
	}
}

// requireCronSecret guards the scheduled-job endpoints with a bearer
// secret so only the scheduler can trigger them.
func (r *Router) requireCronSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.bots.CronSecret == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "cron endpoints are disabled"})
			return
		}
		if c.GetHeader("Authorization") != "Bearer "+r.bots.CronSecret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// requireAdmin guards destructive routes with the admin password,
// supplied in the X-Admin-Password header. Comparison is constant time.
func (r *Router) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.admin.Password == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin access is not configured"})
			return
		}
		supplied := c.GetHeader("X-Admin-Password")
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(r.admin.Password)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "studio-api",
	})
}
