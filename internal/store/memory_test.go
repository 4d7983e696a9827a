package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/designfi/studio/internal/models"
)

func TestMemoryCreateAccountDeduplicates(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(10)

	first := &models.ReferralAccount{
		ID:           uuid.NewString(),
		OwnerAddress: "wallet-1",
		ReferralCode: "code-1",
		CreatedAt:    time.Now().UTC(),
	}
	if err := mem.CreateAccount(ctx, first); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	second := &models.ReferralAccount{
		ID:           uuid.NewString(),
		OwnerAddress: "wallet-1",
		ReferralCode: "code-1",
		CreatedAt:    time.Now().UTC(),
	}
	if err := mem.CreateAccount(ctx, second); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	// The second create must resolve to the first account
	if second.ID != first.ID {
		t.Errorf("Expected duplicate create to return existing account %s, got %s", first.ID, second.ID)
	}
}

func TestMemoryCreateAccountConcurrent(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(10)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			account := &models.ReferralAccount{
				ID:           uuid.NewString(),
				OwnerAddress: "wallet-concurrent",
				ReferralCode: "code-c",
				CreatedAt:    time.Now().UTC(),
			}
			if err := mem.CreateAccount(ctx, account); err != nil {
				t.Errorf("CreateAccount failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(mem.accounts) != 1 {
		t.Errorf("Expected exactly 1 account after concurrent creates, got %d", len(mem.accounts))
	}
}

func TestMemoryAppendEarningUpdatesAggregates(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(10)

	account := &models.ReferralAccount{
		ID:           uuid.NewString(),
		OwnerAddress: "wallet-2",
		ReferralCode: "code-2",
		CreatedAt:    time.Now().UTC(),
	}
	if err := mem.CreateAccount(ctx, account); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	earning := &models.ReferralEarning{
		ID:                uuid.NewString(),
		ReferralAccountID: account.ID,
		SourceArticleID:   "article-1",
		PayerAddress:      "payer-1",
		Amount:            100,
		CreatedAt:         time.Now().UTC(),
	}
	if err := mem.AppendEarning(ctx, earning); err != nil {
		t.Fatalf("AppendEarning failed: %v", err)
	}

	got, err := mem.GetAccountByOwner(ctx, "wallet-2")
	if err != nil {
		t.Fatalf("GetAccountByOwner failed: %v", err)
	}
	if got.TotalEarnings != 100 {
		t.Errorf("Expected total earnings 100, got %d", got.TotalEarnings)
	}
	if got.TotalReferralCount != 1 {
		t.Errorf("Expected referral count 1, got %d", got.TotalReferralCount)
	}

	earnings, err := mem.ListEarnings(ctx, account.ID)
	if err != nil {
		t.Fatalf("ListEarnings failed: %v", err)
	}
	if len(earnings) != 1 {
		t.Errorf("Expected 1 earning, got %d", len(earnings))
	}
}

func TestMemoryContentEviction(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(3)
	now := time.Now().UTC()

	for i := 0; i < 4; i++ {
		record := &models.PostedContent{
			ID:          uuid.NewString(),
			ContentHash: "hash-" + string(rune('a'+i)),
			RawContent:  "content",
			PostedAt:    now,
		}
		if err := mem.InsertContent(ctx, record); err != nil {
			t.Fatalf("InsertContent failed: %v", err)
		}
	}

	// Oldest record should be evicted
	found, err := mem.HasRecentContent(ctx, "hash-a", now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("HasRecentContent failed: %v", err)
	}
	if found {
		t.Error("Expected oldest record to be evicted")
	}

	found, err = mem.HasRecentContent(ctx, "hash-d", now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("HasRecentContent failed: %v", err)
	}
	if !found {
		t.Error("Expected newest record to be retained")
	}
}

func TestMemoryArticles(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(10)
	now := time.Now().UTC()

	older := &models.Article{
		ID:          uuid.NewString(),
		Title:       "older",
		Content:     "body",
		Image:       "img",
		Author:      "a",
		PublishedAt: now.Add(-time.Hour),
	}
	newer := &models.Article{
		ID:          uuid.NewString(),
		Title:       "newer",
		Content:     "body",
		Image:       "img",
		Author:      "a",
		PublishedAt: now,
	}
	if err := mem.CreateArticle(ctx, older); err != nil {
		t.Fatalf("CreateArticle failed: %v", err)
	}
	if err := mem.CreateArticle(ctx, newer); err != nil {
		t.Fatalf("CreateArticle failed: %v", err)
	}

	articles, err := mem.ListArticles(ctx)
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "newer" {
		t.Errorf("Expected newest first, got %q", articles[0].Title)
	}

	if err := mem.DeleteArticle(ctx, older.ID); err != nil {
		t.Fatalf("DeleteArticle failed: %v", err)
	}
	got, err := mem.GetArticle(ctx, older.ID)
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if got != nil {
		t.Error("Expected deleted article to be gone")
	}
}
