// Package content produces social posts, either through the OpenAI API
// or from curated fallback pools when generation is unavailable.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/designfi/studio/internal/dedup"
	"github.com/designfi/studio/pkg/config"
	"github.com/designfi/studio/pkg/logging"
	"github.com/designfi/studio/pkg/telemetry"
)

// PostKind selects the flavor of a generated post.
type PostKind string

const (
	KindFact   PostKind = "fact"
	KindTip    PostKind = "tip"
	KindJoke   PostKind = "joke"
	KindRandom PostKind = "random"
	KindPromo  PostKind = "promo"
	KindMarket PostKind = "market"
)

const (
	openAIEndpoint = "https://api.openai.com/v1/chat/completions"
	systemPrompt   = "You are a creative social media manager for DesignFi Studio, a Web3 design agency. Write short, punchy posts with at most one emoji. Never use hashtags unless asked."
	tweetLimit     = 280
)

var kindPrompts = map[PostKind]string{
	KindFact:   "Write a surprising, true fact about design, branding, or Web3. One or two sentences.",
	KindTip:    "Write one actionable design or Web3 marketing tip. One or two sentences.",
	KindJoke:   "Write a light, clever joke about design or crypto culture. One or two sentences.",
	KindRandom: "Write an upbeat observation about building in Web3 or the craft of design. One or two sentences.",
	KindPromo:  "Write a short promotional post for DesignFi Studio, a design agency for Web3 projects. Mention one concrete service.",
}

// Post pairs generated text with its kind so callers can log and route it.
type Post struct {
	Kind PostKind
	Text string
}

// Generator produces posts. OpenAI is used when configured; every path
// falls back to the curated pools so a run never comes up empty.
type Generator struct {
	http        *http.Client
	apiKey      string
	model       string
	guard       *dedup.Guard
	retryBudget int
	logger      *zap.Logger

	// rngMu guards rng; the generator is shared between the cron
	// endpoints and the bot runner, which can overlap.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates a generator. guard may be nil, disabling duplicate checks.
func New(cfg *config.OpenAIConfig, dedupCfg *config.DedupConfig, guard *dedup.Guard) *Generator {
	budget := 3
	if dedupCfg != nil && dedupCfg.RetryBudget > 0 {
		budget = dedupCfg.RetryBudget
	}
	return &Generator{
		http:        &http.Client{Timeout: 30 * time.Second},
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		guard:       guard,
		retryBudget: budget,
		logger:      logging.GetLogger().With(zap.String("component", "content-generator")),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate produces a single post of the given kind. Generation failures
// degrade to the fallback pool, never to an error.
func (g *Generator) Generate(ctx context.Context, kind PostKind) string {
	ctx, span := telemetry.StartSpan(ctx, "content.generate")
	defer span.End()

	if g.apiKey != "" {
		text, err := g.complete(ctx, kind)
		if err != nil {
			g.logger.Warn("Generation failed, using fallback pool",
				zap.String("kind", string(kind)),
				zap.Error(err))
		} else if text != "" {
			return ClampTweet(text)
		}
	}

	pool := fallbackPool(kind)
	g.rngMu.Lock()
	pick := pool[g.rng.Intn(len(pool))]
	g.rngMu.Unlock()
	return ClampTweet(pick)
}

// GenerateUnique produces a post that the duplicate guard has not seen
// recently. After the retry budget is exhausted the last candidate is
// returned anyway; a repeated post beats a silent channel.
func (g *Generator) GenerateUnique(ctx context.Context, kind PostKind) string {
	text := g.Generate(ctx, kind)
	if g.guard == nil {
		return text
	}

	for attempt := 1; attempt <= g.retryBudget; attempt++ {
		if !g.guard.WasRecentlyPosted(ctx, text) {
			return text
		}
		g.logger.Info("Generated content is a recent duplicate, retrying",
			zap.String("kind", string(kind)),
			zap.Int("attempt", attempt))
		text = g.Generate(ctx, kind)
	}

	if g.guard.WasRecentlyPosted(ctx, text) {
		g.logger.Warn("Retry budget exhausted, posting duplicate content",
			zap.String("kind", string(kind)),
			zap.Int("budget", g.retryBudget))
	}
	return text
}

// GenerateDailyPosts assembles the daily posting batch: the market post
// supplied by the caller (skipped when empty), a promo, and two randomly
// ordered flavor posts.
func (g *Generator) GenerateDailyPosts(ctx context.Context, marketPost string) []Post {
	posts := make([]Post, 0, 4)
	if marketPost != "" {
		posts = append(posts, Post{Kind: KindMarket, Text: ClampTweet(marketPost)})
	}
	posts = append(posts, Post{Kind: KindPromo, Text: g.GenerateUnique(ctx, KindPromo)})

	kinds := []PostKind{KindFact, KindTip, KindJoke, KindRandom}
	g.rngMu.Lock()
	g.rng.Shuffle(len(kinds), func(i, j int) { kinds[i], kinds[j] = kinds[j], kinds[i] })
	g.rngMu.Unlock()
	for _, kind := range kinds[:2] {
		posts = append(posts, Post{Kind: kind, Text: g.GenerateUnique(ctx, kind)})
	}
	return posts
}

// ClampTweet trims text to the platform limit, ellipsized.
func ClampTweet(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= tweetLimit {
		return string(runes)
	}
	return string(runes[:tweetLimit-3]) + "..."
}

func (g *Generator) complete(ctx context.Context, kind PostKind) (string, error) {
	prompt, ok := kindPrompts[kind]
	if !ok {
		prompt = kindPrompts[KindRandom]
	}

	payload := map[string]interface{}{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature": 0.9,
		"max_tokens":  150,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
