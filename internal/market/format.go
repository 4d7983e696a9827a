package market

import (
	"fmt"
	"strings"
)

const telegramMessageLimit = 4000

// changeEmoji maps 24h price movement to the indicator used in reports.
func changeEmoji(change float64) string {
	switch {
	case change > 5:
		return "🚀"
	case change > 2:
		return "📈"
	case change > 0:
		return "🟢"
	case change > -2:
		return "🟡"
	case change > -5:
		return "🔴"
	default:
		return "💥"
	}
}

// formatUSD renders a dollar amount with a T/B/M suffix.
func formatUSD(value float64) string {
	switch {
	case value >= 1e12:
		return fmt.Sprintf("$%.2fT", value/1e12)
	case value >= 1e9:
		return fmt.Sprintf("$%.2fB", value/1e9)
	case value >= 1e6:
		return fmt.Sprintf("$%.2fM", value/1e6)
	default:
		return fmt.Sprintf("$%.2f", value)
	}
}

// formatPrice adapts precision to magnitude so small-cap coins stay legible.
func formatPrice(price float64) string {
	switch {
	case price >= 1:
		return fmt.Sprintf("$%.2f", price)
	case price >= 0.01:
		return fmt.Sprintf("$%.4f", price)
	default:
		return fmt.Sprintf("$%.6f", price)
	}
}

// FormatTelegramReport renders a full market report in Telegram Markdown.
// Top coins get full lines, the mid-field gets compact lines, and the tail
// is a symbols-only roll-up. Output is clamped to the Telegram limit.
func FormatTelegramReport(snap *Snapshot) string {
	var b strings.Builder

	b.WriteString("📊 *Crypto Market Update*\n")
	b.WriteString(snap.FetchedAt.Format("Jan 2, 2006 15:04 MST"))
	b.WriteString("\n\n")

	if snap.Global != nil {
		g := snap.Global
		b.WriteString(fmt.Sprintf("🌍 Market Cap: %s (%+.2f%% 24h)\n", formatUSD(g.TotalMarketCapUSD), g.MarketCapChange24h))
		b.WriteString(fmt.Sprintf("💵 24h Volume: %s\n", formatUSD(g.TotalVolumeUSD)))
		b.WriteString(fmt.Sprintf("₿ BTC Dominance: %.1f%% | Ξ ETH: %.1f%%\n\n", g.BTCDominance, g.ETHDominance))
	}

	b.WriteString("*Top 5*\n")
	for i, coin := range snap.Coins {
		if i >= 5 {
			break
		}
		b.WriteString(fmt.Sprintf("%s *%s* %s (%+.2f%%) | MCap %s\n",
			changeEmoji(coin.PriceChange24h),
			strings.ToUpper(coin.Symbol),
			formatPrice(coin.CurrentPrice),
			coin.PriceChange24h,
			formatUSD(coin.MarketCap)))
	}

	if len(snap.Coins) > 5 {
		b.WriteString("\n*6-10*\n")
		for i := 5; i < len(snap.Coins) && i < 10; i++ {
			coin := snap.Coins[i]
			b.WriteString(fmt.Sprintf("%s %s %s (%+.2f%%)\n",
				changeEmoji(coin.PriceChange24h),
				strings.ToUpper(coin.Symbol),
				formatPrice(coin.CurrentPrice),
				coin.PriceChange24h))
		}
	}

	if len(snap.Coins) > 10 {
		b.WriteString("\n*11-20*\n")
		parts := make([]string, 0, 10)
		for i := 10; i < len(snap.Coins) && i < 20; i++ {
			coin := snap.Coins[i]
			parts = append(parts, fmt.Sprintf("%s %s", changeEmoji(coin.PriceChange24h), strings.ToUpper(coin.Symbol)))
		}
		b.WriteString(strings.Join(parts, " | "))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(marketSentiment(snap.Coins))
	b.WriteString("\n\n_Data provided by CoinGecko_")

	report := b.String()
	if len(report) > telegramMessageLimit {
		report = report[:telegramMessageLimit-3] + "..."
	}
	return report
}

// FormatTweet renders a compact market line for X. If the full form does
// not fit, it falls back to fewer coins rather than clipping mid-symbol.
func FormatTweet(snap *Snapshot) string {
	for count := 5; count >= 2; count-- {
		tweet := buildTweet(snap, count)
		if len([]rune(tweet)) <= 280 {
			return tweet
		}
	}
	return buildTweet(snap, 1)
}

func buildTweet(snap *Snapshot, count int) string {
	var b strings.Builder
	b.WriteString("📊 Market check:\n")
	for i, coin := range snap.Coins {
		if i >= count {
			break
		}
		b.WriteString(fmt.Sprintf("%s %s %s (%+.1f%%)\n",
			changeEmoji(coin.PriceChange24h),
			strings.ToUpper(coin.Symbol),
			formatPrice(coin.CurrentPrice),
			coin.PriceChange24h))
	}
	b.WriteString("#Crypto #DesignFi")
	return b.String()
}

// marketSentiment summarizes the gainer/loser balance.
func marketSentiment(coins []Coin) string {
	gainers := 0
	for _, coin := range coins {
		if coin.PriceChange24h > 0 {
			gainers++
		}
	}
	losers := len(coins) - gainers

	switch {
	case gainers > losers*2:
		return fmt.Sprintf("🔥 Bullish day: %d of %d coins in the green", gainers, len(coins))
	case losers > gainers*2:
		return fmt.Sprintf("🥶 Rough day: %d of %d coins in the red", losers, len(coins))
	default:
		return fmt.Sprintf("⚖️ Mixed market: %d up, %d down", gainers, losers)
	}
}
