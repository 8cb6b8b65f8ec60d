package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MihaiMusteata/url-shortener/internal/cache"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// resolveAbsoluteTTL абсолютный потолок жизни записи резолва.
	resolveAbsoluteTTL = 10 * time.Minute
	// resolveSlidingTTL скользящее окно: чтение продлевает запись, но не дальше потолка.
	resolveSlidingTTL = 2 * time.Minute
	// detailsTTL представление деталей строится над быстро растущим логом кликов,
	// поэтому живет коротко вместо какой-либо синхронизации с записями.
	detailsTTL = 30 * time.Second
)

// resolveEntry запись резолва с зашитым абсолютным дедлайном для скользящего продления.
type resolveEntry struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LinkCache cache-aside слой над двумя независимыми семействами записей:
// resolve-по-алиасу и details-по-id. Никакой согласованности между семействами
// не гарантируется, записи инвалидируются хуками со стороны записывающих операций.
type LinkCache struct {
	store  cache.Store
	logger *logrus.Entry
}

func NewLinkCache(store cache.Store, logger *logrus.Logger) *LinkCache {
	return &LinkCache{
		store:  store,
		logger: logger.WithField("module", "service/link_cache"),
	}
}

func resolveKey(alias string) string {
	return "shortlink:resolve:" + strings.ToLower(alias)
}

func detailsKey(id uuid.UUID) string {
	return fmt.Sprintf("shortlink:details:%s", id)
}

// GetResolve возвращает закешированный оригинальный URL. Попадание продлевает
// жизнь записи на скользящее окно в пределах абсолютного потолка.
func (c *LinkCache) GetResolve(ctx context.Context, alias string) (string, bool) {
	data, ok := c.store.Get(ctx, resolveKey(alias))
	if !ok {
		return "", false
	}

	var entry resolveEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.WithError(err).Warnf("corrupted resolve entry for alias %s", alias)
		_ = c.store.Remove(ctx, resolveKey(alias))
		return "", false
	}

	remaining := time.Until(entry.ExpiresAt)
	if remaining <= 0 {
		_ = c.store.Remove(ctx, resolveKey(alias))
		return "", false
	}

	ttl := resolveSlidingTTL
	if remaining < ttl {
		ttl = remaining
	}
	if err := c.store.Set(ctx, resolveKey(alias), data, ttl); err != nil {
		c.logger.WithError(err).Warnf("failed to extend resolve entry for alias %s", alias)
	}

	return entry.URL, true
}

// PrimeResolve кладет свежий оригинальный URL в кеш резолва.
// При отмененном контексте запись не производится.
func (c *LinkCache) PrimeResolve(ctx context.Context, alias, originalURL string) {
	if ctx.Err() != nil {
		return
	}

	entry := resolveEntry{
		URL:       originalURL,
		ExpiresAt: time.Now().Add(resolveAbsoluteTTL),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.WithError(err).Warnf("failed to marshal resolve entry for alias %s", alias)
		return
	}
	if setErr := c.store.Set(ctx, resolveKey(alias), data, resolveSlidingTTL); setErr != nil {
		c.logger.WithError(setErr).Warnf("failed to prime resolve entry for alias %s", alias)
	}
}

func (c *LinkCache) InvalidateResolve(ctx context.Context, alias string) {
	if err := c.store.Remove(ctx, resolveKey(alias)); err != nil {
		c.logger.WithError(err).Warnf("failed to invalidate resolve entry for alias %s", alias)
	}
}

// GetDetails возвращает закешированное представление деталей.
func (c *LinkCache) GetDetails(ctx context.Context, id uuid.UUID) (*DetailsView, bool) {
	data, ok := c.store.Get(ctx, detailsKey(id))
	if !ok {
		return nil, false
	}

	var view DetailsView
	if err := json.Unmarshal(data, &view); err != nil {
		c.logger.WithError(err).Warnf("corrupted details entry for link %s", id)
		_ = c.store.Remove(ctx, detailsKey(id))
		return nil, false
	}
	return &view, true
}

// SetDetails кеширует вычисленное представление деталей на короткий TTL.
// При отмененном контексте запись не производится.
func (c *LinkCache) SetDetails(ctx context.Context, view *DetailsView) {
	if ctx.Err() != nil {
		return
	}

	data, err := json.Marshal(view)
	if err != nil {
		c.logger.WithError(err).Warnf("failed to marshal details view for link %s", view.ID)
		return
	}
	if setErr := c.store.Set(ctx, detailsKey(view.ID), data, detailsTTL); setErr != nil {
		c.logger.WithError(setErr).Warnf("failed to cache details view for link %s", view.ID)
	}
}

func (c *LinkCache) InvalidateDetails(ctx context.Context, id uuid.UUID) {
	if err := c.store.Remove(ctx, detailsKey(id)); err != nil {
		c.logger.WithError(err).Warnf("failed to invalidate details entry for link %s", id)
	}
}
