// Package market fetches cryptocurrency market data from CoinGecko and
// renders it for the channels the studio publishes to.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/designfi/studio/internal/cache"
	"github.com/designfi/studio/pkg/logging"
	"github.com/designfi/studio/pkg/telemetry"
)

const (
	defaultBaseURL = "https://api.coingecko.com/api/v3"
	cacheTTL       = 5 * time.Minute
)

// Coin is a single market entry from the /coins/markets endpoint.
type Coin struct {
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	CurrentPrice   float64 `json:"current_price"`
	MarketCap      float64 `json:"market_cap"`
	MarketCapRank  int     `json:"market_cap_rank"`
	TotalVolume    float64 `json:"total_volume"`
	PriceChange24h float64 `json:"price_change_percentage_24h"`
}

// GlobalStats summarizes the /global endpoint.
type GlobalStats struct {
	TotalMarketCapUSD      float64
	TotalVolumeUSD         float64
	MarketCapChange24h     float64
	BTCDominance           float64
	ETHDominance           float64
	ActiveCryptocurrencies int
}

// Snapshot bundles one fetch of the market for the formatters.
type Snapshot struct {
	Coins     []Coin
	Global    *GlobalStats
	FetchedAt time.Time
}

// Client talks to the CoinGecko public API. Responses are cached in
// Redis for a short TTL so scheduled runs and API handlers landing close
// together do not burn through the public rate limit.
type Client struct {
	http    *http.Client
	baseURL string
	cache   *cache.Cache
	logger  *zap.Logger
}

// NewClient creates a CoinGecko client. The cache may be nil.
func NewClient(c *cache.Cache) *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
		cache:   c,
		logger:  logging.GetLogger().With(zap.String("component", "coingecko")),
	}
}

// TopCoins fetches the top coins by market cap, USD denominated.
func (c *Client) TopCoins(ctx context.Context, limit int) ([]Coin, error) {
	ctx, span := telemetry.StartSpan(ctx, "market.top_coins")
	defer span.End()

	if limit <= 0 {
		limit = 20
	}

	cacheKey := cache.HashKey("market", "top", strconv.Itoa(limit))
	if cached, err := c.cache.Get(cacheKey); err == nil {
		var coins []Coin
		if err := json.Unmarshal([]byte(cached), &coins); err == nil {
			return coins, nil
		}
	}

	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("order", "market_cap_desc")
	query.Set("per_page", strconv.Itoa(limit))
	query.Set("page", "1")
	query.Set("sparkline", "false")

	var coins []Coin
	if err := c.get(ctx, "/coins/markets?"+query.Encode(), &coins); err != nil {
		return nil, fmt.Errorf("failed to fetch top coins: %w", err)
	}

	if payload, err := json.Marshal(coins); err == nil {
		if err := c.cache.Set(cacheKey, payload, cacheTTL); err != nil && err != cache.ErrCacheDisabled {
			c.logger.Warn("Failed to cache market data", zap.Error(err))
		}
	}

	return coins, nil
}

// Global fetches aggregate market statistics.
func (c *Client) Global(ctx context.Context) (*GlobalStats, error) {
	ctx, span := telemetry.StartSpan(ctx, "market.global")
	defer span.End()

	cacheKey := cache.HashKey("market", "global")
	if cached, err := c.cache.Get(cacheKey); err == nil {
		var stats GlobalStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	}

	var response struct {
		Data struct {
			ActiveCryptocurrencies int                `json:"active_cryptocurrencies"`
			TotalMarketCap         map[string]float64 `json:"total_market_cap"`
			TotalVolume            map[string]float64 `json:"total_volume"`
			MarketCapPercentage    map[string]float64 `json:"market_cap_percentage"`
			MarketCapChange24hUSD  float64            `json:"market_cap_change_percentage_24h_usd"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/global", &response); err != nil {
		return nil, fmt.Errorf("failed to fetch global stats: %w", err)
	}

	stats := &GlobalStats{
		TotalMarketCapUSD:      response.Data.TotalMarketCap["usd"],
		TotalVolumeUSD:         response.Data.TotalVolume["usd"],
		MarketCapChange24h:     response.Data.MarketCapChange24hUSD,
		BTCDominance:           response.Data.MarketCapPercentage["btc"],
		ETHDominance:           response.Data.MarketCapPercentage["eth"],
		ActiveCryptocurrencies: response.Data.ActiveCryptocurrencies,
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := c.cache.Set(cacheKey, payload, cacheTTL); err != nil && err != cache.ErrCacheDisabled {
			c.logger.Warn("Failed to cache global stats", zap.Error(err))
		}
	}

	return stats, nil
}

// FetchSnapshot fetches coins and global stats together. Global stats are
// optional: a failure there degrades the report instead of aborting it.
func (c *Client) FetchSnapshot(ctx context.Context, limit int) (*Snapshot, error) {
	coins, err := c.TopCoins(ctx, limit)
	if err != nil {
		return nil, err
	}

	global, err := c.Global(ctx)
	if err != nil {
		c.logger.Warn("Global stats unavailable, continuing without them", zap.Error(err))
		global = nil
	}

	return &Snapshot{
		Coins:     coins,
		Global:    global,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
