package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

type adminVerifyRequest struct {
	Password string `json:"password" binding:"required"`
}

// adminVerify checks the dashboard password. Comparison is constant time
// so response timing leaks nothing about the configured value.
func (r *Router) adminVerify(c *gin.Context) {
	var req adminVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	if r.admin.Password == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin access is not configured"})
		return
	}

	valid := subtle.ConstantTimeCompare([]byte(req.Password), []byte(r.admin.Password)) == 1
	if !valid {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}
