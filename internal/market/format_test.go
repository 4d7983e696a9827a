package market

import (
	"strings"
	"testing"
	"time"
)

func sampleSnapshot(n int) *Snapshot {
	coins := make([]Coin, 0, n)
	symbols := []string{"btc", "eth", "sol", "bnb", "xrp", "ada", "doge", "avax", "dot", "link",
		"matic", "ltc", "uni", "atom", "xlm", "near", "apt", "fil", "arb", "op"}
	for i := 0; i < n; i++ {
		coins = append(coins, Coin{
			Symbol:         symbols[i%len(symbols)],
			Name:           strings.ToUpper(symbols[i%len(symbols)]),
			CurrentPrice:   float64(1000 - i*40),
			MarketCap:      float64(1e12 / float64(i+1)),
			MarketCapRank:  i + 1,
			PriceChange24h: float64(6 - i),
		})
	}
	return &Snapshot{
		Coins: coins,
		Global: &GlobalStats{
			TotalMarketCapUSD:  2.4e12,
			TotalVolumeUSD:     98e9,
			MarketCapChange24h: 1.2,
			BTCDominance:       52.3,
			ETHDominance:       17.1,
		},
		FetchedAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
	}
}

func TestChangeEmoji(t *testing.T) {
	tests := []struct {
		change float64
		want   string
	}{
		{6.1, "🚀"},
		{3.0, "📈"},
		{0.5, "🟢"},
		{-1.0, "🟡"},
		{-4.0, "🔴"},
		{-12.0, "💥"},
	}
	for _, tt := range tests {
		if got := changeEmoji(tt.change); got != tt.want {
			t.Errorf("changeEmoji(%v) = %s, want %s", tt.change, got, tt.want)
		}
	}
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{2.4e12, "$2.40T"},
		{98e9, "$98.00B"},
		{5.5e6, "$5.50M"},
		{1234.5, "$1234.50"},
	}
	for _, tt := range tests {
		if got := formatUSD(tt.value); got != tt.want {
			t.Errorf("formatUSD(%v) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestFormatTelegramReport(t *testing.T) {
	report := FormatTelegramReport(sampleSnapshot(20))

	for _, want := range []string{
		"*Crypto Market Update*",
		"Market Cap: $2.40T",
		"BTC Dominance: 52.3%",
		"*Top 5*",
		"*6-10*",
		"*11-20*",
		"Data provided by CoinGecko",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if len(report) > telegramMessageLimit {
		t.Errorf("report exceeds limit: %d", len(report))
	}
}

func TestFormatTelegramReportNoGlobal(t *testing.T) {
	snap := sampleSnapshot(5)
	snap.Global = nil
	report := FormatTelegramReport(snap)
	if strings.Contains(report, "Market Cap:") {
		t.Error("report includes global section without global stats")
	}
	if !strings.Contains(report, "*Top 5*") {
		t.Error("report missing coin section")
	}
}

func TestFormatTweetFits(t *testing.T) {
	tweet := FormatTweet(sampleSnapshot(20))
	if got := len([]rune(tweet)); got > 280 {
		t.Errorf("tweet too long: %d runes", got)
	}
	if !strings.Contains(tweet, "#DesignFi") {
		t.Error("tweet missing hashtag")
	}
}

func TestMarketSentiment(t *testing.T) {
	bullish := []Coin{{PriceChange24h: 1}, {PriceChange24h: 2}, {PriceChange24h: 3}, {PriceChange24h: -1}}
	if got := marketSentiment(bullish); !strings.Contains(got, "Bullish") {
		t.Errorf("want bullish sentiment, got %q", got)
	}

	bearish := []Coin{{PriceChange24h: -1}, {PriceChange24h: -2}, {PriceChange24h: -3}, {PriceChange24h: 1}}
	if got := marketSentiment(bearish); !strings.Contains(got, "Rough") {
		t.Errorf("want bearish sentiment, got %q", got)
	}

	mixed := []Coin{{PriceChange24h: 1}, {PriceChange24h: -1}}
	if got := marketSentiment(mixed); !strings.Contains(got, "Mixed") {
		t.Errorf("want mixed sentiment, got %q", got)
	}
}
