// Package bots wires data sources, content generation, and the social
// clients into the scheduled publishing jobs.
package bots

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/designfi/studio/internal/market"
	"github.com/designfi/studio/internal/social"
	"github.com/designfi/studio/pkg/logging"
	"github.com/designfi/studio/pkg/telemetry"
)

const marketReportCoins = 20

// MarketBot publishes the periodic market report to Telegram.
type MarketBot struct {
	market   *market.Client
	telegram *social.Telegram
	logger   *zap.Logger
}

// NewMarketBot creates the market report job.
func NewMarketBot(mk *market.Client, tg *social.Telegram) *MarketBot {
	return &MarketBot{
		market:   mk,
		telegram: tg,
		logger:   logging.GetLogger().With(zap.String("component", "market-bot")),
	}
}

// Run fetches a market snapshot and posts the formatted report.
func (b *MarketBot) Run(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "bots.market_update")
	defer span.End()

	if !b.telegram.Enabled() {
		return fmt.Errorf("telegram is not configured")
	}

	snap, err := b.market.FetchSnapshot(ctx, marketReportCoins)
	if err != nil {
		return fmt.Errorf("failed to fetch market snapshot: %w", err)
	}

	report := market.FormatTelegramReport(snap)
	if err := b.telegram.SendMessage(ctx, report); err != nil {
		return fmt.Errorf("failed to send market report: %w", err)
	}

	b.logger.Info("Market report published",
		zap.Int("coins", len(snap.Coins)),
		zap.Bool("global_stats", snap.Global != nil))
	return nil
}
