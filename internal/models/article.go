package models

import (
	"database/sql"
	"time"
)

// Article source kinds
const (
	ArticleSourceSelfPublished = "self-published"
	ArticleSourceExternal      = "external"
)

// Article is a published piece of content
type Article struct {
	ID          string    `gorm:"primaryKey;type:uuid;column:id" json:"id"`
	Title       string    `gorm:"type:varchar(256);not null;column:title" json:"title"`
	Content     string    `gorm:"type:text;not null;column:content" json:"content"`
	Image       string    `gorm:"type:text;not null;column:image" json:"image"`
	Author      string    `gorm:"type:varchar(128);not null;column:author" json:"author"`
	PublishedAt time.Time `gorm:"not null;index:articles_ix1;column:published_at" json:"publishedAt"`
	Source      string    `gorm:"type:varchar(16);not null;default:'self-published';column:source" json:"source"`

	// Optional author/source links
	TelegramLink sql.NullString `gorm:"type:varchar(256);column:telegram_link" json:"telegramLink"`
	TwitterLink  sql.NullString `gorm:"type:varchar(256);column:twitter_link" json:"twitterLink"`
	WebsiteLink  sql.NullString `gorm:"type:varchar(256);column:website_link" json:"websiteLink"`
	ExternalURL  sql.NullString `gorm:"type:varchar(512);column:external_url" json:"externalUrl"`
	SourceName   sql.NullString `gorm:"type:varchar(128);column:source_name" json:"sourceName"`
}

// TableName specifies the table name for Article
func (Article) TableName() string {
	return "articles"
}
