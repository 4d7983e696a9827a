// Package dedup prevents re-emitting near-identical social content within
// a rolling window. Checks degrade gracefully: posting availability is
// preferred over perfect duplicate detection when the store is down.
package dedup

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/designfi/studio/internal/models"
	"github.com/designfi/studio/internal/store"
	"github.com/designfi/studio/pkg/config"
	"github.com/designfi/studio/pkg/logging"
)

const (
	fingerprintPrefixRunes = 150
	rawContentKeepRunes    = 500
)

// Guard answers "was this posted recently?" against the content store,
// with a bounded in-process ring as same-process protection when the
// store rejects writes.
type Guard struct {
	store    store.ContentStore
	window   time.Duration
	failOpen bool
	logger   *zap.Logger
	nowFunc  func() time.Time

	mu      sync.Mutex
	ring    []*models.PostedContent
	ringCap int
}

// New creates a duplicate-content guard
func New(st store.ContentStore, cfg *config.DedupConfig) *Guard {
	ringCap := cfg.MemoryCap
	if ringCap <= 0 {
		ringCap = 1000
	}
	return &Guard{
		store:    st,
		window:   time.Duration(cfg.WindowDays) * 24 * time.Hour,
		failOpen: cfg.FailOpen,
		logger:   logging.GetLogger().With(zap.String("component", "dedup")),
		nowFunc:  func() time.Time { return time.Now().UTC() },
		ringCap:  ringCap,
	}
}

// Fingerprint normalizes content (trim, lowercase, whitespace runs
// collapsed to single spaces) and forms a similarity-tolerant digest:
// the first 150 normalized characters joined with the total normalized
// length. Contents differing only in trailing emoji or spacing collide
// on purpose; the digest stays exact-comparable.
func Fingerprint(content string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(content), " "))
	runes := []rune(normalized)
	prefix := runes
	if len(prefix) > fingerprintPrefixRunes {
		prefix = prefix[:fingerprintPrefixRunes]
	}
	return fmt.Sprintf("%s_%d", string(prefix), len(runes))
}

// WasRecentlyPosted reports whether equivalent content was emitted within
// the window. Store failures never block the caller: with fail-open
// enabled the in-process ring is consulted and the answer defaults to
// false; with fail-open disabled a failure reads as "duplicate" so
// nothing is emitted until the store recovers.
func (g *Guard) WasRecentlyPosted(ctx context.Context, content string) bool {
	hash := Fingerprint(content)
	cutoff := g.nowFunc().Add(-g.window)

	found, err := g.store.HasRecentContent(ctx, hash, cutoff)
	if err != nil {
		g.logger.Warn("Content store unavailable during duplicate check",
			zap.Error(err),
			zap.Bool("fail_open", g.failOpen))
		if !g.failOpen {
			return true
		}
		return g.ringHas(hash, cutoff)
	}
	return found
}

// RecordPosted stores a posted-content record after successful emission.
// A failed store write falls back to the in-process ring so the duplicate
// check keeps same-process protection.
func (g *Guard) RecordPosted(ctx context.Context, content, externalReferenceID string) {
	raw := content
	if runes := []rune(raw); len(runes) > rawContentKeepRunes {
		raw = string(runes[:rawContentKeepRunes])
	}

	record := &models.PostedContent{
		ID:          uuid.NewString(),
		ContentHash: Fingerprint(content),
		RawContent:  raw,
		PostedAt:    g.nowFunc(),
	}
	if externalReferenceID != "" {
		record.ExternalReferenceID = sql.NullString{String: externalReferenceID, Valid: true}
	}

	if err := g.store.InsertContent(ctx, record); err != nil {
		g.logger.Warn("Failed to persist posted content, keeping in-process copy", zap.Error(err))
		g.ringAppend(record)
	}
}

// FilterUnique drops items already posted within the window, preserving
// the order of survivors. Items inside one batch are not checked against
// each other, and nothing is recorded here; recording happens only after
// the caller actually emits.
func (g *Guard) FilterUnique(ctx context.Context, contents []string) []string {
	unique := make([]string, 0, len(contents))
	for _, content := range contents {
		if g.WasRecentlyPosted(ctx, content) {
			preview := content
			if len(preview) > 50 {
				preview = preview[:50] + "..."
			}
			g.logger.Info("Skipping duplicate content", zap.String("preview", preview))
			continue
		}
		unique = append(unique, content)
	}
	return unique
}

func (g *Guard) ringHas(hash string, cutoff time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, rec := range g.ring {
		if rec.ContentHash == hash && !rec.PostedAt.Before(cutoff) {
			return true
		}
	}
	return false
}

func (g *Guard) ringAppend(record *models.PostedContent) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ring = append(g.ring, record)
	if len(g.ring) > g.ringCap {
		g.ring = g.ring[1:]
	}
}
