package social

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/designfi/studio/pkg/config"
	"github.com/designfi/studio/pkg/logging"
	"github.com/designfi/studio/pkg/telemetry"
)

const twitterAPIBase = "https://api.twitter.com"

var (
	// ErrTwitterAuth signals rejected or insufficient credentials.
	ErrTwitterAuth = errors.New("twitter credentials rejected")
	// ErrTweetTooLong signals text over the platform limit after clamping.
	ErrTweetTooLong = errors.New("tweet exceeds 280 characters")
)

// Twitter posts through the X API v2 using an OAuth2 bearer token.
type Twitter struct {
	http    *http.Client
	baseURL string
	token   string
	logger  *zap.Logger
}

// PostedTweet is the result of a successful post.
type PostedTweet struct {
	ID   string
	Text string
	URL  string
}

// NewTwitter creates an X client. Enabled reports false without a token.
func NewTwitter(cfg *config.TwitterConfig) *Twitter {
	return &Twitter{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: twitterAPIBase,
		token:   cfg.BearerToken,
		logger:  logging.GetLogger().With(zap.String("component", "twitter")),
	}
}

// Enabled reports whether credentials are present.
func (tw *Twitter) Enabled() bool {
	return tw != nil && tw.token != ""
}

// Post publishes a single tweet, clamping the text to the platform limit
// first. Returns the created tweet with its public URL.
func (tw *Twitter) Post(ctx context.Context, text string) (*PostedTweet, error) {
	ctx, span := telemetry.StartSpan(ctx, "twitter.post")
	defer span.End()

	if !tw.Enabled() {
		return nil, fmt.Errorf("twitter is not configured")
	}

	text = clampTweetText(text)
	if len([]rune(text)) > 280 {
		return nil, ErrTweetTooLong
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tw.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tw.token)

	resp, err := tw.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrTwitterAuth, resp.StatusCode, string(detail))
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("twitter returned status %d: %s", resp.StatusCode, string(detail))
	}

	var response struct {
		Data struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	tweet := &PostedTweet{
		ID:   response.Data.ID,
		Text: response.Data.Text,
		URL:  TweetURL(response.Data.ID),
	}
	tw.logger.Info("Tweet posted", zap.String("tweet_id", tweet.ID))
	return tweet, nil
}

// PostMultiple publishes tweets in order with a delay between them. One
// failed tweet does not abort the rest; failures are collected in the
// returned error while successes are returned alongside it.
func (tw *Twitter) PostMultiple(ctx context.Context, texts []string, delay time.Duration) ([]*PostedTweet, error) {
	posted := make([]*PostedTweet, 0, len(texts))
	var failures []error

	for i, text := range texts {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return posted, ctx.Err()
			case <-time.After(delay):
			}
		}

		tweet, err := tw.Post(ctx, text)
		if err != nil {
			tw.logger.Error("Failed to post tweet", zap.Int("index", i), zap.Error(err))
			failures = append(failures, fmt.Errorf("tweet %d: %w", i, err))
			continue
		}
		posted = append(posted, tweet)
	}

	if len(failures) > 0 {
		return posted, fmt.Errorf("%d of %d tweets failed: %w", len(failures), len(texts), failures[0])
	}
	return posted, nil
}

// TweetURL builds the public URL for a tweet ID.
func TweetURL(id string) string {
	return "https://x.com/DesignFiStudio/status/" + id
}

func clampTweetText(text string) string {
	runes := []rune(text)
	if len(runes) <= 280 {
		return text
	}
	return string(runes[:277]) + "..."
}
