// Package store provides the record-store boundary shared by the ledger,
// the duplicate-content guard, and the article service. Two adapters
// implement it: Postgres when a database URL is configured, and a
// process-local in-memory store otherwise. The choice is made once, here;
// business logic never branches on persistence availability.
package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/designfi/studio/internal/db"
	"github.com/designfi/studio/internal/models"
	"github.com/designfi/studio/pkg/config"
	"github.com/designfi/studio/pkg/logging"
)

// ReferralStore persists referral accounts and their earnings
type ReferralStore interface {
	// GetAccountByOwner returns (nil, nil) when no account exists
	GetAccountByOwner(ctx context.Context, owner string) (*models.ReferralAccount, error)
	// GetAccountByCode returns (nil, nil) when no account has the code
	GetAccountByCode(ctx context.Context, code string) (*models.ReferralAccount, error)
	// CreateAccount persists a new account; owner uniqueness is enforced here
	CreateAccount(ctx context.Context, account *models.ReferralAccount) error
	// AppendEarning inserts the earning row and applies the matching
	// aggregate increments to the owning account, together
	AppendEarning(ctx context.Context, earning *models.ReferralEarning) error
	// ListEarnings returns an account's earnings, newest first
	ListEarnings(ctx context.Context, accountID string) ([]*models.ReferralEarning, error)
}

// ContentStore persists posted-content records for duplicate detection
type ContentStore interface {
	// HasRecentContent reports whether a record with the hash exists at or
	// after the cutoff
	HasRecentContent(ctx context.Context, hash string, since time.Time) (bool, error)
	// InsertContent persists a posted-content record
	InsertContent(ctx context.Context, record *models.PostedContent) error
}

// ArticleStore persists published articles
type ArticleStore interface {
	// ListArticles returns all articles, newest first
	ListArticles(ctx context.Context) ([]*models.Article, error)
	// GetArticle returns (nil, nil) when the article does not exist
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	// CreateArticle persists a new article
	CreateArticle(ctx context.Context, article *models.Article) error
	// DeleteArticle removes an article; deleting a missing id is not an error
	DeleteArticle(ctx context.Context, id string) error
}

// Stores bundles the record stores handed to the services
type Stores struct {
	Referrals ReferralStore
	Content   ContentStore
	Articles  ArticleStore
}

// Open selects the backing store from configuration: Postgres when a
// database URL is present, the in-memory fallback otherwise. The returned
// close function releases the database connection (a no-op for memory).
func Open(cfg *config.Config) (*Stores, func() error, error) {
	logger := logging.GetLogger().With(zap.String("component", "store"))

	if cfg.Database.URL == "" {
		logger.Warn("Database not configured, using in-memory store; data is lost on restart")
		mem := NewMemory(cfg.Dedup.MemoryCap)
		return &Stores{
			Referrals: mem,
			Content:   mem,
			Articles:  mem,
		}, func() error { return nil }, nil
	}

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}

	if err := database.AutoMigrate(
		&models.ReferralAccount{},
		&models.ReferralEarning{},
		&models.PostedContent{},
		&models.Article{},
	); err != nil {
		return nil, nil, err
	}

	logger.Info("Using Postgres store")
	pg := NewPostgres(database.DB)
	return &Stores{
		Referrals: pg,
		Content:   pg,
		Articles:  pg,
	}, database.Close, nil
}
