package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/designfi/studio/internal/store"
	"github.com/designfi/studio/pkg/config"
)

func newTestLedger() *Ledger {
	return New(store.NewMemory(100), &config.ReferralConfig{CommissionPercent: 10})
}

func TestDeriveReferralCode(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		expected string
	}{
		{
			name:     "solana-length address",
			address:  "DA7GPnpyxVkL7Lfc3vnRw1bz9XGbSAiTs7Z2GEGanvWj",
			expected: "DA7GPnpynvWj",
		},
		{
			name:     "short address passes through",
			address:  "shortaddr",
			expected: "shortaddr",
		},
		{
			name:     "exact boundary passes through",
			address:  "123456789012",
			expected: "123456789012",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DeriveReferralCode(tt.address)
			if result != tt.expected {
				t.Errorf("DeriveReferralCode(%q) = %v, want %v", tt.address, result, tt.expected)
			}
			// Deterministic
			if DeriveReferralCode(tt.address) != result {
				t.Error("DeriveReferralCode should be deterministic")
			}
		})
	}
}

func TestDeriveReferralCodeCollides(t *testing.T) {
	// Two distinct addresses sharing the first 8 and last 4 characters
	// collide. This is an accepted property of the scheme, not a bug.
	a := "AAAAAAAAxxxxxxxxZZZZ"
	b := "AAAAAAAAyyyyyyyyZZZZ"
	if DeriveReferralCode(a) != DeriveReferralCode(b) {
		t.Error("Expected colliding codes for addresses sharing prefix and suffix")
	}
}

func TestGetOrCreateAccount(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()

	account, err := l.GetOrCreateAccount(ctx, "DA7GPnpyxVkL7Lfc3vnRw1bz9XGbSAiTs7Z2GEGanvWj")
	if err != nil {
		t.Fatalf("GetOrCreateAccount failed: %v", err)
	}
	if account.TotalEarnings != 0 || account.TotalReferralCount != 0 {
		t.Error("New account should start with zero aggregates")
	}
	if account.ReferralCode != "DA7GPnpynvWj" {
		t.Errorf("Unexpected referral code: %s", account.ReferralCode)
	}

	// Second call returns the same account
	again, err := l.GetOrCreateAccount(ctx, "DA7GPnpyxVkL7Lfc3vnRw1bz9XGbSAiTs7Z2GEGanvWj")
	if err != nil {
		t.Fatalf("GetOrCreateAccount failed: %v", err)
	}
	if again.ID != account.ID {
		t.Errorf("Expected stable account ID %s, got %s", account.ID, again.ID)
	}

	// Empty owner is rejected
	if _, err := l.GetOrCreateAccount(ctx, ""); !IsValidation(err) {
		t.Errorf("Expected validation error for empty owner, got: %v", err)
	}
}

func TestLookupByCode(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()

	if _, err := l.LookupByCode(ctx, "missing"); !errors.Is(err, ErrCodeNotFound) {
		t.Errorf("Expected ErrCodeNotFound, got: %v", err)
	}

	account, err := l.GetOrCreateAccount(ctx, "DA7GPnpyxVkL7Lfc3vnRw1bz9XGbSAiTs7Z2GEGanvWj")
	if err != nil {
		t.Fatalf("GetOrCreateAccount failed: %v", err)
	}

	found, err := l.LookupByCode(ctx, account.ReferralCode)
	if err != nil {
		t.Fatalf("LookupByCode failed: %v", err)
	}
	if found.ID != account.ID {
		t.Errorf("Expected account %s, got %s", account.ID, found.ID)
	}
}

func TestRecordEarning(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()

	account, err := l.GetOrCreateAccount(ctx, "DA7GPnpyxVkL7Lfc3vnRw1bz9XGbSAiTs7Z2GEGanvWj")
	if err != nil {
		t.Fatalf("GetOrCreateAccount failed: %v", err)
	}

	tests := []struct {
		name     string
		payment  int64
		expected int64
	}{
		{"standard payment", 1000, 100},
		{"small payment floors to zero", 7, 0},
		{"zero payment", 0, 0},
		{"odd payment rounds down", 999, 99},
	}

	var wantTotal, wantCount int64
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			earning, err := l.RecordEarning(ctx, account.ReferralCode, "article-1", "payer-wallet", tt.payment)
			if err != nil {
				t.Fatalf("RecordEarning failed: %v", err)
			}
			if earning.Amount != tt.expected {
				t.Errorf("Expected earning %d for payment %d, got %d", tt.expected, tt.payment, earning.Amount)
			}

			wantTotal += tt.expected
			wantCount++

			got, err := l.GetOrCreateAccount(ctx, account.OwnerAddress)
			if err != nil {
				t.Fatalf("GetOrCreateAccount failed: %v", err)
			}
			if got.TotalEarnings != wantTotal {
				t.Errorf("Expected total earnings %d, got %d", wantTotal, got.TotalEarnings)
			}
			if got.TotalReferralCount != wantCount {
				t.Errorf("Expected referral count %d, got %d", wantCount, got.TotalReferralCount)
			}
		})
	}

	// Aggregates must equal the materialized view of the earning list
	earnings, err := l.ListEarnings(ctx, account.ID)
	if err != nil {
		t.Fatalf("ListEarnings failed: %v", err)
	}
	var sum int64
	for _, e := range earnings {
		sum += e.Amount
	}
	if sum != wantTotal {
		t.Errorf("Earning list sums to %d, aggregates say %d", sum, wantTotal)
	}
	if int64(len(earnings)) != wantCount {
		t.Errorf("Earning list has %d rows, aggregates say %d", len(earnings), wantCount)
	}
}

func TestRecordEarningUnknownCode(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()

	account, err := l.GetOrCreateAccount(ctx, "DA7GPnpyxVkL7Lfc3vnRw1bz9XGbSAiTs7Z2GEGanvWj")
	if err != nil {
		t.Fatalf("GetOrCreateAccount failed: %v", err)
	}

	if _, err := l.RecordEarning(ctx, "nope", "article-1", "payer", 1000); !errors.Is(err, ErrCodeNotFound) {
		t.Errorf("Expected ErrCodeNotFound, got: %v", err)
	}

	// Nothing was mutated
	got, err := l.GetOrCreateAccount(ctx, account.OwnerAddress)
	if err != nil {
		t.Fatalf("GetOrCreateAccount failed: %v", err)
	}
	if got.TotalEarnings != 0 || got.TotalReferralCount != 0 {
		t.Error("Unknown code must not mutate any account")
	}
}

func TestRecordEarningValidation(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()

	account, err := l.GetOrCreateAccount(ctx, "DA7GPnpyxVkL7Lfc3vnRw1bz9XGbSAiTs7Z2GEGanvWj")
	if err != nil {
		t.Fatalf("GetOrCreateAccount failed: %v", err)
	}

	tests := []struct {
		name    string
		code    string
		article string
		payer   string
		amount  int64
	}{
		{"empty code", "", "article-1", "payer", 1000},
		{"empty article", account.ReferralCode, "", "payer", 1000},
		{"empty payer", account.ReferralCode, "article-1", "", 1000},
		{"negative amount", account.ReferralCode, "article-1", "payer", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.RecordEarning(ctx, tt.code, tt.article, tt.payer, tt.amount); !IsValidation(err) {
				t.Errorf("Expected validation error, got: %v", err)
			}
		})
	}

	// No partial effects
	got, err := l.GetOrCreateAccount(ctx, account.OwnerAddress)
	if err != nil {
		t.Fatalf("GetOrCreateAccount failed: %v", err)
	}
	if got.TotalEarnings != 0 || got.TotalReferralCount != 0 {
		t.Error("Rejected inputs must not mutate the account")
	}
}
