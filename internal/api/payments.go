package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createPaymentRequest struct {
	Label        string `json:"label"`
	ReferralCode string `json:"referral_code"`
}

// createPayment issues a Solana Pay request for an article publication.
func (r *Router) createPayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	payment, err := r.payments.CreatePayment(c.Request.Context(), req.Label, req.ReferralCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// getPayment returns the tracked state of a payment by reference.
func (r *Router) getPayment(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference query parameter is required"})
		return
	}

	payment, err := r.payments.GetPayment(c.Request.Context(), reference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

type confirmPaymentRequest struct {
	Reference    string `json:"reference" binding:"required"`
	PayerAddress string `json:"payer_address" binding:"required"`
}

// confirmPayment settles a pending payment and triggers referral payout.
func (r *Router) confirmPayment(c *gin.Context) {
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference and payer_address are required"})
		return
	}

	payment, err := r.payments.ConfirmPayment(c.Request.Context(), req.Reference, req.PayerAddress)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}
