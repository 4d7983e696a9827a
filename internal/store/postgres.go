package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/designfi/studio/internal/models"
)

// Postgres implements the record stores over a GORM connection
type Postgres struct {
	db *gorm.DB
}

// NewPostgres creates a new Postgres store
func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

// GetAccountByOwner retrieves an account by owner address
func (s *Postgres) GetAccountByOwner(ctx context.Context, owner string) (*models.ReferralAccount, error) {
	var account models.ReferralAccount
	if err := s.db.WithContext(ctx).Where("owner_address = ?", owner).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// GetAccountByCode retrieves an account by referral code
func (s *Postgres) GetAccountByCode(ctx context.Context, code string) (*models.ReferralAccount, error) {
	var account models.ReferralAccount
	if err := s.db.WithContext(ctx).Where("referral_code = ?", code).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// CreateAccount creates a new referral account. The unique index on
// owner_address rejects concurrent duplicate creation.
func (s *Postgres) CreateAccount(ctx context.Context, account *models.ReferralAccount) error {
	return s.db.WithContext(ctx).Create(account).Error
}

// AppendEarning inserts the earning and bumps the account aggregates in a
// single transaction, keeping the materialized totals consistent with the
// earning list.
func (s *Postgres) AppendEarning(ctx context.Context, earning *models.ReferralEarning) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(earning).Error; err != nil {
			return err
		}
		return tx.Model(&models.ReferralAccount{}).
			Where("id = ?", earning.ReferralAccountID).
			Updates(map[string]interface{}{
				"total_earnings":       gorm.Expr("total_earnings + ?", earning.Amount),
				"total_referral_count": gorm.Expr("total_referral_count + 1"),
			}).Error
	})
}

// ListEarnings retrieves an account's earnings, newest first
func (s *Postgres) ListEarnings(ctx context.Context, accountID string) ([]*models.ReferralEarning, error) {
	var earnings []*models.ReferralEarning
	if err := s.db.WithContext(ctx).
		Where("referral_account_id = ?", accountID).
		Order("created_at DESC").
		Find(&earnings).Error; err != nil {
		return nil, err
	}
	return earnings, nil
}

// HasRecentContent checks for a matching content hash within the window
func (s *Postgres) HasRecentContent(ctx context.Context, hash string, since time.Time) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.PostedContent{}).
		Where("content_hash = ? AND posted_at >= ?", hash, since).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertContent records posted content
func (s *Postgres) InsertContent(ctx context.Context, record *models.PostedContent) error {
	return s.db.WithContext(ctx).Create(record).Error
}

// ListArticles retrieves all articles, newest first
func (s *Postgres) ListArticles(ctx context.Context) ([]*models.Article, error) {
	var articles []*models.Article
	if err := s.db.WithContext(ctx).Order("published_at DESC").Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// GetArticle retrieves an article by ID
func (s *Postgres) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

// CreateArticle creates a new article
func (s *Postgres) CreateArticle(ctx context.Context, article *models.Article) error {
	return s.db.WithContext(ctx).Create(article).Error
}

// DeleteArticle deletes an article by ID
func (s *Postgres) DeleteArticle(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Article{}).Error
}
