// Package payments issues Solana Pay requests for article publication
// and settles referral commissions on confirmation.
package payments

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/designfi/studio/internal/ledger"
	"github.com/designfi/studio/pkg/config"
	"github.com/designfi/studio/pkg/logging"
	"github.com/designfi/studio/pkg/telemetry"
)

const lamportsPerSOL = 1_000_000_000

// Payment statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
)

var (
	// ErrPaymentNotFound is returned for an unknown payment reference.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrAlreadyConfirmed is returned when a payment is confirmed twice.
	ErrAlreadyConfirmed = errors.New("payment already confirmed")
	// ErrNoMerchant is returned when no merchant wallet is configured.
	ErrNoMerchant = errors.New("merchant wallet is not configured")
)

// Payment is a tracked Solana Pay request. The reference doubles as the
// on-chain reference key wallets attach to the transfer.
type Payment struct {
	Reference    string    `json:"reference"`
	URL          string    `json:"url"`
	Recipient    string    `json:"recipient"`
	AmountSOL    int64     `json:"amount_sol"`
	Label        string    `json:"label"`
	Status       string    `json:"status"`
	ReferralCode string    `json:"referral_code,omitempty"`
	PayerAddress string    `json:"payer_address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Service creates and confirms publication payments. Requests are held
// in memory; an unconfirmed request simply expires with the process.
type Service struct {
	merchant string
	costSOL  int64
	ledger   *ledger.Ledger
	logger   *zap.Logger
	nowFunc  func() time.Time

	mu      sync.Mutex
	pending map[string]*Payment
}

// New creates the payment service.
func New(cfg *config.PaymentsConfig, lg *ledger.Ledger) *Service {
	return &Service{
		merchant: cfg.MerchantWallet,
		costSOL:  int64(cfg.PublicationCostSOL),
		ledger:   lg,
		logger:   logging.GetLogger().With(zap.String("component", "payments")),
		nowFunc:  func() time.Time { return time.Now().UTC() },
		pending:  make(map[string]*Payment),
	}
}

// BuildPaymentURL renders a Solana Pay transfer request URL.
func BuildPaymentURL(merchant string, amountSOL int64, reference, label string) string {
	query := url.Values{}
	query.Set("amount", strconv.FormatInt(amountSOL, 10))
	query.Set("reference", reference)
	query.Set("label", label)
	return fmt.Sprintf("solana:%s?%s", merchant, query.Encode())
}

// CreatePayment issues a new pending payment for an article publication.
// A referral code may ride along; it is settled on confirmation.
func (s *Service) CreatePayment(ctx context.Context, label, referralCode string) (*Payment, error) {
	ctx, span := telemetry.StartSpan(ctx, "payments.create")
	defer span.End()

	if s.merchant == "" {
		return nil, ErrNoMerchant
	}
	if label == "" {
		label = "DesignFi Studio publication"
	}

	reference := uuid.NewString()
	payment := &Payment{
		Reference:    reference,
		URL:          BuildPaymentURL(s.merchant, s.costSOL, reference, label),
		Recipient:    s.merchant,
		AmountSOL:    s.costSOL,
		Label:        label,
		Status:       StatusPending,
		ReferralCode: referralCode,
		CreatedAt:    s.nowFunc(),
	}

	s.mu.Lock()
	s.pending[reference] = payment
	s.mu.Unlock()

	s.logger.Info("Payment request created",
		zap.String("reference", reference),
		zap.Int64("amount_sol", s.costSOL),
		zap.Bool("has_referral", referralCode != ""))

	return payment, nil
}

// GetPayment returns the tracked payment for a reference.
func (s *Service) GetPayment(ctx context.Context, reference string) (*Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.pending[reference]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	copied := *payment
	return &copied, nil
}

// ConfirmPayment marks a payment as settled and records the referral
// commission when a code is attached. The commission is computed on the
// lamport amount so the ledger stays in integer arithmetic.
func (s *Service) ConfirmPayment(ctx context.Context, reference, payerAddress string) (*Payment, error) {
	ctx, span := telemetry.StartSpan(ctx, "payments.confirm")
	defer span.End()

	s.mu.Lock()
	payment, ok := s.pending[reference]
	if !ok {
		s.mu.Unlock()
		return nil, ErrPaymentNotFound
	}
	if payment.Status == StatusConfirmed {
		s.mu.Unlock()
		return nil, ErrAlreadyConfirmed
	}
	payment.Status = StatusConfirmed
	payment.PayerAddress = payerAddress
	copied := *payment
	s.mu.Unlock()

	if payment.ReferralCode != "" {
		lamports := payment.AmountSOL * lamportsPerSOL
		_, err := s.ledger.RecordEarning(ctx, payment.ReferralCode, reference, payerAddress, lamports)
		if err != nil {
			// The payment itself stands; the commission is what failed.
			s.logger.Error("Failed to record referral earning",
				zap.String("reference", reference),
				zap.String("referral_code", payment.ReferralCode),
				zap.Error(err))
		}
	}

	s.logger.Info("Payment confirmed",
		zap.String("reference", reference),
		zap.String("payer", payerAddress))

	return &copied, nil
}
