package models

import (
	"database/sql"
	"time"
)

// PostedContent records emitted social content for duplicate detection.
// RawContent keeps only the first 500 characters, for audit.
type PostedContent struct {
	ID                  string         `gorm:"primaryKey;type:uuid;column:id" json:"id"`
	ContentHash         string         `gorm:"type:varchar(192);not null;index:posted_content_ix1;column:content_hash" json:"contentHash"`
	RawContent          string         `gorm:"type:varchar(500);not null;column:raw_content" json:"rawContent"`
	ExternalReferenceID sql.NullString `gorm:"type:varchar(64);column:external_reference_id" json:"externalReferenceId"`
	PostedAt            time.Time      `gorm:"not null;index:posted_content_ix2;column:posted_at" json:"postedAt"`
}

// TableName specifies the table name for PostedContent
func (PostedContent) TableName() string {
	return "posted_content"
}
