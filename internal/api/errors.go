package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/designfi/studio/internal/articles"
	"github.com/designfi/studio/internal/ledger"
	"github.com/designfi/studio/internal/payments"
	"github.com/designfi/studio/pkg/logging"
)

// respondError translates service errors into HTTP responses. Validation
// failures and known sentinels map to client errors; everything else is a
// 500 with the detail kept in the logs.
func respondError(c *gin.Context, err error) {
	switch {
	case ledger.IsValidation(err) || articles.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrCodeNotFound),
		errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, articles.ErrNotFound),
		errors.Is(err, payments.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, payments.ErrAlreadyConfirmed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, payments.ErrNoMerchant):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logging.GetLogger().Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
