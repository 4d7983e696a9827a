package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/designfi/studio/internal/models"
)

// Memory is the process-local fallback store used when no database is
// configured. All reads and writes run inside one mutex, which is what
// makes lazy account creation safe under concurrent requests. Data does
// not survive a restart.
type Memory struct {
	mu         sync.Mutex
	accounts   []*models.ReferralAccount
	earnings   []*models.ReferralEarning
	content    []*models.PostedContent
	articles   []*models.Article
	contentCap int
}

// NewMemory creates an in-memory store. contentCap bounds retained
// posted-content records; the oldest are evicted first.
func NewMemory(contentCap int) *Memory {
	if contentCap <= 0 {
		contentCap = 1000
	}
	return &Memory{contentCap: contentCap}
}

// GetAccountByOwner retrieves an account by owner address
func (m *Memory) GetAccountByOwner(ctx context.Context, owner string) (*models.ReferralAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.OwnerAddress == owner {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

// GetAccountByCode retrieves an account by referral code
func (m *Memory) GetAccountByCode(ctx context.Context, code string) (*models.ReferralAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ReferralCode == code {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

// CreateAccount creates a new referral account. A second create for the
// same owner inside the critical section returns the existing row
// untouched, mirroring the database unique constraint without erroring
// the earlier winner.
func (m *Memory) CreateAccount(ctx context.Context, account *models.ReferralAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.OwnerAddress == account.OwnerAddress {
			*account = *a
			return nil
		}
	}
	copied := *account
	m.accounts = append(m.accounts, &copied)
	return nil
}

// AppendEarning inserts the earning and applies the aggregate increments
// inside the same critical section
func (m *Memory) AppendEarning(ctx context.Context, earning *models.ReferralEarning) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *earning
	m.earnings = append(m.earnings, &copied)
	for _, a := range m.accounts {
		if a.ID == earning.ReferralAccountID {
			a.TotalEarnings += earning.Amount
			a.TotalReferralCount++
			break
		}
	}
	return nil
}

// ListEarnings retrieves an account's earnings, newest first
func (m *Memory) ListEarnings(ctx context.Context, accountID string) ([]*models.ReferralEarning, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.ReferralEarning
	for _, e := range m.earnings {
		if e.ReferralAccountID == accountID {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// HasRecentContent checks for a matching content hash within the window
func (m *Memory) HasRecentContent(ctx context.Context, hash string, since time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.content {
		if c.ContentHash == hash && !c.PostedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

// InsertContent records posted content, evicting the oldest entry once
// the cap is reached
func (m *Memory) InsertContent(ctx context.Context, record *models.PostedContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *record
	m.content = append(m.content, &copied)
	if len(m.content) > m.contentCap {
		m.content = m.content[1:]
	}
	return nil
}

// ListArticles retrieves all articles, newest first
func (m *Memory) ListArticles(ctx context.Context) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Article, 0, len(m.articles))
	for _, a := range m.articles {
		copied := *a
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out, nil
}

// GetArticle retrieves an article by ID
func (m *Memory) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.articles {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

// CreateArticle creates a new article
func (m *Memory) CreateArticle(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *article
	m.articles = append(m.articles, &copied)
	return nil
}

// DeleteArticle deletes an article by ID
func (m *Memory) DeleteArticle(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.articles {
		if a.ID == id {
			m.articles = append(m.articles[:i], m.articles[i+1:]...)
			return nil
		}
	}
	return nil
}
