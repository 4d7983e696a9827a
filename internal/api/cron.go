package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// runMarketUpdate triggers a market report run.
func (r *Router) runMarketUpdate(c *gin.Context) {
	if err := r.marketBot.Run(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "market update sent"})
}

// runXBot triggers a daily posting run.
func (r *Router) runXBot(c *gin.Context) {
	if err := r.xBot.Run(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "posts published"})
}
