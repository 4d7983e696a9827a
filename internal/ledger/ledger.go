// Package ledger tracks referral relationships and accumulates commission
// earnings over the configured record store.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/designfi/studio/internal/models"
	"github.com/designfi/studio/internal/store"
	"github.com/designfi/studio/pkg/config"
	"github.com/designfi/studio/pkg/logging"
	"github.com/designfi/studio/pkg/telemetry"
)

// Ledger records referral earnings and keeps account aggregates in step
// with the earning list
type Ledger struct {
	store             store.ReferralStore
	commissionPercent int64
	logger            *zap.Logger
	nowFunc           func() time.Time
}

// New creates a new referral ledger
func New(st store.ReferralStore, cfg *config.ReferralConfig) *Ledger {
	return &Ledger{
		store:             st,
		commissionPercent: int64(cfg.CommissionPercent),
		logger:            logging.GetLogger().With(zap.String("component", "ledger")),
		nowFunc:           func() time.Time { return time.Now().UTC() },
	}
}

// DeriveReferralCode derives a referral code from a wallet address: the
// first 8 characters joined with the last 4. Distinct addresses sharing
// those substrings collide; this is a documented property of the scheme,
// kept for compatibility with already-issued codes.
func DeriveReferralCode(ownerAddress string) string {
	if len(ownerAddress) <= 12 {
		return ownerAddress
	}
	return ownerAddress[:8] + ownerAddress[len(ownerAddress)-4:]
}

// GetOrCreateAccount looks up the account for a wallet, creating it with
// zeroed counters on first sight. Owner uniqueness under concurrent calls
// is the store's responsibility.
func (l *Ledger) GetOrCreateAccount(ctx context.Context, ownerAddress string) (*models.ReferralAccount, error) {
	ctx, span := telemetry.StartSpan(ctx, "ledger.get_or_create_account")
	defer span.End()

	if ownerAddress == "" {
		return nil, &ValidationError{Field: "ownerAddress", Reason: "must not be empty"}
	}

	account, err := l.store.GetAccountByOwner(ctx, ownerAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to look up referral account: %w", err)
	}
	if account != nil {
		return account, nil
	}

	account = &models.ReferralAccount{
		ID:           uuid.NewString(),
		OwnerAddress: ownerAddress,
		ReferralCode: DeriveReferralCode(ownerAddress),
		CreatedAt:    l.nowFunc(),
	}
	if err := l.store.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create referral account: %w", err)
	}

	l.logger.Info("Created referral account",
		zap.String("owner", ownerAddress),
		zap.String("code", account.ReferralCode))

	return account, nil
}

// GetAccount resolves a wallet address to its account without creating
// one. Returns ErrAccountNotFound when the wallet has no account yet.
func (l *Ledger) GetAccount(ctx context.Context, ownerAddress string) (*models.ReferralAccount, error) {
	if ownerAddress == "" {
		return nil, &ValidationError{Field: "ownerAddress", Reason: "must not be empty"}
	}

	account, err := l.store.GetAccountByOwner(ctx, ownerAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to look up referral account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// LookupByCode resolves a referral code to its account. Returns
// ErrCodeNotFound when no account has the code.
func (l *Ledger) LookupByCode(ctx context.Context, code string) (*models.ReferralAccount, error) {
	if code == "" {
		return nil, &ValidationError{Field: "referralCode", Reason: "must not be empty"}
	}

	account, err := l.store.GetAccountByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up referral code: %w", err)
	}
	if account == nil {
		return nil, ErrCodeNotFound
	}
	return account, nil
}

// ListEarnings returns an account's earnings, newest first
func (l *Ledger) ListEarnings(ctx context.Context, accountID string) ([]*models.ReferralEarning, error) {
	return l.store.ListEarnings(ctx, accountID)
}

// RecordEarning attributes a commission for a confirmed payment to the
// account owning the referral code. The commission is
// paymentAmount * percent / 100 in integer arithmetic, never rounded up.
// A zero payment still produces a zero-amount earning and increments the
// referral count. The earning row and the aggregate increments are
// applied together by the store; a store failure is surfaced so financial
// state never silently diverges.
func (l *Ledger) RecordEarning(ctx context.Context, code, sourceArticleID, payerAddress string, paymentAmount int64) (*models.ReferralEarning, error) {
	ctx, span := telemetry.StartSpan(ctx, "ledger.record_earning")
	defer span.End()

	if code == "" {
		return nil, &ValidationError{Field: "referralCode", Reason: "must not be empty"}
	}
	if sourceArticleID == "" {
		return nil, &ValidationError{Field: "articleId", Reason: "must not be empty"}
	}
	if payerAddress == "" {
		return nil, &ValidationError{Field: "payerAddress", Reason: "must not be empty"}
	}
	if paymentAmount < 0 {
		return nil, &ValidationError{Field: "paymentAmount", Reason: "must not be negative"}
	}

	account, err := l.LookupByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	earning := &models.ReferralEarning{
		ID:                uuid.NewString(),
		ReferralAccountID: account.ID,
		SourceArticleID:   sourceArticleID,
		PayerAddress:      payerAddress,
		Amount:            paymentAmount * l.commissionPercent / 100,
		CreatedAt:         l.nowFunc(),
	}

	if err := l.store.AppendEarning(ctx, earning); err != nil {
		return nil, fmt.Errorf("failed to record referral earning: %w", err)
	}

	l.logger.Info("Recorded referral earning",
		zap.String("code", code),
		zap.String("article_id", sourceArticleID),
		zap.Int64("payment", paymentAmount),
		zap.Int64("earning", earning.Amount))

	return earning, nil
}
