package models

import (
	"time"
)

// ReferralAccount tracks a referrer's code and aggregate earnings.
// TotalEarnings and TotalReferralCount are a materialized view of the
// account's earning rows and must change together with every insert.
type ReferralAccount struct {
	ID                 string    `gorm:"primaryKey;type:uuid;column:id" json:"id"`
	OwnerAddress       string    `gorm:"type:varchar(64);not null;uniqueIndex:referral_accounts_ux1;column:owner_address" json:"ownerAddress"`
	ReferralCode       string    `gorm:"type:varchar(16);not null;index:referral_accounts_ix1;column:referral_code" json:"referralCode"`
	TotalEarnings      int64     `gorm:"not null;default:0;column:total_earnings" json:"totalEarnings"`
	TotalReferralCount int64     `gorm:"not null;default:0;column:total_referral_count" json:"totalReferralCount"`
	CreatedAt          time.Time `gorm:"not null;column:created_at" json:"createdAt"`
}

// TableName specifies the table name for ReferralAccount
func (ReferralAccount) TableName() string {
	return "referral_accounts"
}

// ReferralEarning is one commission record, append-only
type ReferralEarning struct {
	ID                string    `gorm:"primaryKey;type:uuid;column:id" json:"id"`
	ReferralAccountID string    `gorm:"type:uuid;not null;index:referral_earnings_ix1;column:referral_account_id" json:"referralAccountId"`
	SourceArticleID   string    `gorm:"type:varchar(64);not null;column:source_article_id" json:"sourceArticleId"`
	PayerAddress      string    `gorm:"type:varchar(64);not null;column:payer_address" json:"payerAddress"`
	Amount            int64     `gorm:"not null;column:amount" json:"amount"`
	CreatedAt         time.Time `gorm:"not null;column:created_at" json:"createdAt"`

	// Relationships
	Account *ReferralAccount `gorm:"foreignKey:ReferralAccountID;references:ID" json:"-"`
}

// TableName specifies the table name for ReferralEarning
func (ReferralEarning) TableName() string {
	return "referral_earnings"
}
