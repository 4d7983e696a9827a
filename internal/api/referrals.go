package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/designfi/studio/internal/models"
)

type referralResponse struct {
	Account  *models.ReferralAccount   `json:"account"`
	Earnings []*models.ReferralEarning `json:"earnings,omitempty"`
}

// getReferral resolves an account by wallet address or referral code and
// returns it with its earning history.
func (r *Router) getReferral(c *gin.Context) {
	wallet := c.Query("wallet")
	code := c.Query("code")

	var (
		account *models.ReferralAccount
		err     error
	)
	switch {
	case wallet != "":
		account, err = r.ledger.GetAccount(c.Request.Context(), wallet)
	case code != "":
		account, err = r.ledger.LookupByCode(c.Request.Context(), code)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet or code query parameter is required"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	earnings, err := r.ledger.ListEarnings(c.Request.Context(), account.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, referralResponse{Account: account, Earnings: earnings})
}

type createReferralRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
}

// createReferral issues (or returns) the referral account for a wallet.
func (r *Router) createReferral(c *gin.Context) {
	var req createReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet_address is required"})
		return
	}

	account, err := r.ledger.GetOrCreateAccount(c.Request.Context(), req.WalletAddress)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, referralResponse{Account: account})
}
