// Package articles manages the studio's published articles.
package articles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/designfi/studio/internal/models"
	"github.com/designfi/studio/internal/social"
	"github.com/designfi/studio/internal/store"
	"github.com/designfi/studio/pkg/logging"
	"github.com/designfi/studio/pkg/telemetry"
)

// ErrNotFound is returned when the requested article does not exist.
var ErrNotFound = errors.New("article not found")

// ValidationError reports a rejected field on a publish request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PublishRequest carries the fields of a new article.
type PublishRequest struct {
	Title        string
	Content      string
	Image        string
	Author       string
	TelegramLink string
	TwitterLink  string
	WebsiteLink  string
}

// Service implements article listing, publication, and removal. Channel
// announcements ride along on publish but never fail it.
type Service struct {
	store    store.ArticleStore
	telegram *social.Telegram
	logger   *zap.Logger
	nowFunc  func() time.Time
}

// New creates the article service. telegram may be nil or unconfigured.
func New(st store.ArticleStore, tg *social.Telegram) *Service {
	return &Service{
		store:    st,
		telegram: tg,
		logger:   logging.GetLogger().With(zap.String("component", "articles")),
		nowFunc:  func() time.Time { return time.Now().UTC() },
	}
}

// List returns all articles, newest first.
func (s *Service) List(ctx context.Context) ([]*models.Article, error) {
	return s.store.ListArticles(ctx)
}

// Get returns one article by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Article, error) {
	article, err := s.store.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	return article, nil
}

// Publish validates and stores a new article, then announces it on
// Telegram when a channel is configured. The announcement is best effort.
func (s *Service) Publish(ctx context.Context, req *PublishRequest) (*models.Article, error) {
	ctx, span := telemetry.StartSpan(ctx, "articles.publish")
	defer span.End()

	if req.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if req.Content == "" {
		return nil, &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if req.Image == "" {
		return nil, &ValidationError{Field: "image", Reason: "must not be empty"}
	}

	article := &models.Article{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Content:      req.Content,
		Image:        req.Image,
		Author:       req.Author,
		PublishedAt:  s.nowFunc(),
		Source:       models.ArticleSourceSelfPublished,
		TelegramLink: nullString(req.TelegramLink),
		TwitterLink:  nullString(req.TwitterLink),
		WebsiteLink:  nullString(req.WebsiteLink),
	}

	if err := s.store.CreateArticle(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	s.logger.Info("Article published",
		zap.String("article_id", article.ID),
		zap.String("title", article.Title))

	if s.telegram.Enabled() {
		if err := s.telegram.AnnounceArticle(ctx, article); err != nil {
			s.logger.Warn("Failed to announce article on Telegram",
				zap.String("article_id", article.ID),
				zap.Error(err))
		}
	}

	return article, nil
}

// Delete removes an article by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	article, err := s.store.GetArticle(ctx, id)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrNotFound
	}

	if err := s.store.DeleteArticle(ctx, id); err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	s.logger.Info("Article deleted", zap.String("article_id", id))
	return nil
}

func nullString(s string) (ns sql.NullString) {
	if s != "" {
		ns.String = s
		ns.Valid = true
	}
	return
}
