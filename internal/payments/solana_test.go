package payments

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/designfi/studio/internal/ledger"
	"github.com/designfi/studio/internal/store"
	"github.com/designfi/studio/pkg/config"
)

const testMerchant = "DA7GPnpyxVkL7Lfc3vnRw1bz9XGbSAiTs7Z2GEGanvWj"

func newTestService(t *testing.T) (*Service, *ledger.Ledger, *store.Memory) {
	t.Helper()
	mem := store.NewMemory(100)
	lg := ledger.New(mem, &config.ReferralConfig{CommissionPercent: 10})
	svc := New(&config.PaymentsConfig{MerchantWallet: testMerchant, PublicationCostSOL: 100}, lg)
	return svc, lg, mem
}

func TestBuildPaymentURL(t *testing.T) {
	got := BuildPaymentURL(testMerchant, 100, "ref-1", "DesignFi publication")
	if !strings.HasPrefix(got, "solana:"+testMerchant+"?") {
		t.Errorf("URL prefix wrong: %s", got)
	}
	for _, want := range []string{"amount=100", "reference=ref-1", "label=DesignFi+publication"} {
		if !strings.Contains(got, want) {
			t.Errorf("URL missing %q: %s", want, got)
		}
	}
}

func TestCreateAndGetPayment(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	payment, err := svc.CreatePayment(ctx, "My Article", "")
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if payment.Status != StatusPending {
		t.Errorf("status = %s, want pending", payment.Status)
	}
	if payment.AmountSOL != 100 {
		t.Errorf("amount = %d, want 100", payment.AmountSOL)
	}

	got, err := svc.GetPayment(ctx, payment.Reference)
	if err != nil {
		t.Fatalf("GetPayment: %v", err)
	}
	if got.URL != payment.URL {
		t.Error("tracked payment differs from created one")
	}

	if _, err := svc.GetPayment(ctx, "unknown"); !errors.Is(err, ErrPaymentNotFound) {
		t.Errorf("unknown reference = %v, want ErrPaymentNotFound", err)
	}
}

func TestCreatePaymentNoMerchant(t *testing.T) {
	mem := store.NewMemory(100)
	lg := ledger.New(mem, &config.ReferralConfig{CommissionPercent: 10})
	svc := New(&config.PaymentsConfig{PublicationCostSOL: 100}, lg)

	if _, err := svc.CreatePayment(context.Background(), "x", ""); !errors.Is(err, ErrNoMerchant) {
		t.Errorf("got %v, want ErrNoMerchant", err)
	}
}

func TestConfirmPaymentSettlesReferral(t *testing.T) {
	svc, lg, _ := newTestService(t)
	ctx := context.Background()

	account, err := lg.GetOrCreateAccount(ctx, testMerchant)
	if err != nil {
		t.Fatalf("GetOrCreateAccount: %v", err)
	}

	payment, err := svc.CreatePayment(ctx, "Referred Article", account.ReferralCode)
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	confirmed, err := svc.ConfirmPayment(ctx, payment.Reference, "payerWallet111")
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if confirmed.Status != StatusConfirmed {
		t.Errorf("status = %s, want confirmed", confirmed.Status)
	}

	// 100 SOL in lamports at 10% commission.
	updated, err := lg.LookupByCode(ctx, account.ReferralCode)
	if err != nil {
		t.Fatalf("LookupByCode: %v", err)
	}
	wantEarnings := int64(100) * lamportsPerSOL / 10
	if updated.TotalEarnings != wantEarnings {
		t.Errorf("total earnings = %d, want %d", updated.TotalEarnings, wantEarnings)
	}
	if updated.TotalReferralCount != 1 {
		t.Errorf("referral count = %d, want 1", updated.TotalReferralCount)
	}

	if _, err := svc.ConfirmPayment(ctx, payment.Reference, "payerWallet111"); !errors.Is(err, ErrAlreadyConfirmed) {
		t.Errorf("second confirm = %v, want ErrAlreadyConfirmed", err)
	}
}

func TestConfirmPaymentWithoutReferral(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	payment, err := svc.CreatePayment(ctx, "Plain Article", "")
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if _, err := svc.ConfirmPayment(ctx, payment.Reference, "payer"); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
}
