// Package social holds the outbound publishing clients for Telegram
// and X.
package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/designfi/studio/internal/models"
	"github.com/designfi/studio/pkg/config"
	"github.com/designfi/studio/pkg/logging"
	"github.com/designfi/studio/pkg/telemetry"
)

const (
	telegramAPIBase     = "https://api.telegram.org"
	articlePreviewRunes = 500
)

// Telegram posts to a channel through the Bot API.
type Telegram struct {
	http      *http.Client
	baseURL   string
	token     string
	channelID string
	logger    *zap.Logger
}

// NewTelegram creates a Telegram client. With missing credentials the
// client is created anyway and Enabled reports false; callers decide
// whether that is fatal.
func NewTelegram(cfg *config.TelegramConfig) *Telegram {
	return &Telegram{
		http:      &http.Client{Timeout: 10 * time.Second},
		baseURL:   telegramAPIBase,
		token:     cfg.BotToken,
		channelID: cfg.ChannelID,
		logger:    logging.GetLogger().With(zap.String("component", "telegram")),
	}
}

// Enabled reports whether credentials are present.
func (t *Telegram) Enabled() bool {
	return t != nil && t.token != "" && t.channelID != ""
}

// SendMessage posts a Markdown message to the channel.
func (t *Telegram) SendMessage(ctx context.Context, text string) error {
	ctx, span := telemetry.StartSpan(ctx, "telegram.send_message")
	defer span.End()

	if !t.Enabled() {
		return fmt.Errorf("telegram is not configured")
	}

	return t.call(ctx, "sendMessage", map[string]interface{}{
		"chat_id":                  t.channelID,
		"text":                     text,
		"parse_mode":               "Markdown",
		"disable_web_page_preview": true,
	})
}

// SendPhoto posts a photo with a Markdown caption. When the photo upload
// is rejected, for example a dead image URL, the caption is sent as a
// plain message instead so the announcement still goes out.
func (t *Telegram) SendPhoto(ctx context.Context, photoURL, caption string) error {
	ctx, span := telemetry.StartSpan(ctx, "telegram.send_photo")
	defer span.End()

	if !t.Enabled() {
		return fmt.Errorf("telegram is not configured")
	}

	err := t.call(ctx, "sendPhoto", map[string]interface{}{
		"chat_id":    t.channelID,
		"photo":      photoURL,
		"caption":    caption,
		"parse_mode": "Markdown",
	})
	if err != nil {
		t.logger.Warn("Photo message failed, retrying as text", zap.Error(err))
		return t.SendMessage(ctx, caption)
	}
	return nil
}

// AnnounceArticle publishes an article notification to the channel.
func (t *Telegram) AnnounceArticle(ctx context.Context, article *models.Article) error {
	message := FormatArticleMessage(article)
	if article.Image != "" {
		return t.SendPhoto(ctx, article.Image, message)
	}
	return t.SendMessage(ctx, message)
}

// SendTweetDigest posts links to freshly published tweets.
func (t *Telegram) SendTweetDigest(ctx context.Context, tweetURLs []string) error {
	if len(tweetURLs) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("🐦 *Fresh from our X feed*\n\n")
	for _, u := range tweetURLs {
		b.WriteString(u)
		b.WriteString("\n")
	}
	return t.SendMessage(ctx, b.String())
}

// FormatArticleMessage renders the channel announcement for an article:
// bold title, clipped body preview, byline, then whatever links the
// article carries.
func FormatArticleMessage(article *models.Article) string {
	var b strings.Builder

	b.WriteString("📰 *")
	b.WriteString(article.Title)
	b.WriteString("*\n\n")

	preview := []rune(article.Content)
	if len(preview) > articlePreviewRunes {
		b.WriteString(string(preview[:articlePreviewRunes]))
		b.WriteString("...")
	} else {
		b.WriteString(article.Content)
	}
	b.WriteString("\n\n")

	if article.Author != "" {
		b.WriteString("✍️ ")
		b.WriteString(article.Author)
		b.WriteString("\n")
	}
	b.WriteString("📅 ")
	b.WriteString(article.PublishedAt.Format("Jan 2, 2006"))
	b.WriteString("\n")

	links := make([]string, 0, 4)
	if article.WebsiteLink.Valid {
		links = append(links, "[Website]("+article.WebsiteLink.String+")")
	}
	if article.TelegramLink.Valid {
		links = append(links, "[Telegram]("+article.TelegramLink.String+")")
	}
	if article.TwitterLink.Valid {
		links = append(links, "[X]("+article.TwitterLink.String+")")
	}
	if article.ExternalURL.Valid {
		links = append(links, "[Read more]("+article.ExternalURL.String+")")
	}
	if len(links) > 0 {
		b.WriteString(strings.Join(links, " | "))
		b.WriteString("\n")
	}

	b.WriteString("\n#DesignFi #Web3 #Crypto")
	return b.String()
}

func (t *Telegram) call(ctx context.Context, method string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", t.baseURL, t.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram %s returned status %d: %s", method, resp.StatusCode, string(detail))
	}

	var response struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !response.OK {
		return fmt.Errorf("telegram %s failed: %s", method, response.Description)
	}

	return nil
}
