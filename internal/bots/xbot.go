package bots

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/designfi/studio/internal/content"
	"github.com/designfi/studio/internal/dedup"
	"github.com/designfi/studio/internal/market"
	"github.com/designfi/studio/internal/social"
	"github.com/designfi/studio/pkg/logging"
	"github.com/designfi/studio/pkg/telemetry"
)

// XBot runs the daily posting batch: a market tweet plus generated
// content, with duplicate tracking and a Telegram digest of what went out.
type XBot struct {
	generator  *content.Generator
	twitter    *social.Twitter
	telegram   *social.Telegram
	guard      *dedup.Guard
	market     *market.Client
	tweetDelay time.Duration
	logger     *zap.Logger
}

// NewXBot creates the daily posting job.
func NewXBot(gen *content.Generator, tw *social.Twitter, tg *social.Telegram, guard *dedup.Guard, mk *market.Client, tweetDelay time.Duration) *XBot {
	return &XBot{
		generator:  gen,
		twitter:    tw,
		telegram:   tg,
		guard:      guard,
		market:     mk,
		tweetDelay: tweetDelay,
		logger:     logging.GetLogger().With(zap.String("component", "x-bot")),
	}
}

// Run generates and posts the daily batch. A single failed post does not
// abort the run; the error reports how many posts made it out.
func (b *XBot) Run(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "bots.x_post")
	defer span.End()

	if !b.twitter.Enabled() {
		return fmt.Errorf("twitter is not configured")
	}

	marketTweet := ""
	if snap, err := b.market.FetchSnapshot(ctx, 5); err != nil {
		b.logger.Warn("Market data unavailable, posting without market tweet", zap.Error(err))
	} else {
		marketTweet = market.FormatTweet(snap)
	}

	posts := b.generator.GenerateDailyPosts(ctx, marketTweet)

	var tweetURLs []string
	posted, failed := 0, 0
	for i, post := range posts {
		if i > 0 && b.tweetDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(b.tweetDelay):
			}
		}

		tweet, err := b.twitter.Post(ctx, post.Text)
		if err != nil {
			b.logger.Error("Failed to post tweet",
				zap.String("kind", string(post.Kind)),
				zap.Error(err))
			failed++
			continue
		}

		b.guard.RecordPosted(ctx, post.Text, tweet.ID)
		tweetURLs = append(tweetURLs, tweet.URL)
		posted++
	}

	if b.telegram.Enabled() && len(tweetURLs) > 0 {
		if err := b.telegram.SendTweetDigest(ctx, tweetURLs); err != nil {
			b.logger.Warn("Failed to send tweet digest", zap.Error(err))
		}
	}

	b.logger.Info("Daily posting run finished",
		zap.Int("posted", posted),
		zap.Int("failed", failed))

	if posted == 0 {
		return fmt.Errorf("all %d posts failed", len(posts))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d posts failed", failed, len(posts))
	}
	return nil
}
