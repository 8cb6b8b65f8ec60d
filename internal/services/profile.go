package services

import (
	"context"

	"github.com/MihaiMusteata/url-shortener/internal/cache"
	"github.com/MihaiMusteata/url-shortener/internal/events"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ProfileCache владелец кеша профиля. Сам профиль (список ссылок, расход квоты)
// собирается вне этого сервиса; наша обязанность — сбрасывать его запись каждый раз
// когда меняются данные от которых он посчитан.
type ProfileCache struct {
	store  cache.Store
	logger *logrus.Entry
}

func NewProfileCache(store cache.Store, logger *logrus.Logger) *ProfileCache {
	return &ProfileCache{
		store:  store,
		logger: logger.WithField("module", "service/profile_cache"),
	}
}

func profileKey(userID uuid.UUID) string {
	return "profile:me:" + userID.String()
}

func (p *ProfileCache) InvalidateProfile(ctx context.Context, userID uuid.UUID) {
	if userID == uuid.Nil {
		p.logger.Debug("invalidate profile ignored: empty user id")
		return
	}
	if err := p.store.Remove(ctx, profileKey(userID)); err != nil {
		p.logger.WithError(err).Warnf("failed to invalidate profile cache for user %s", userID)
	}
}

// RegisterInvalidation подписывает кеш профиля на события меняющие его содержимое.
func (p *ProfileCache) RegisterInvalidation(bus *events.Bus) {
	handler := func(payload events.Payload) {
		p.InvalidateProfile(context.Background(), payload.UserID)
	}
	bus.Subscribe(events.LinkCreated, handler)
	bus.Subscribe(events.LinkDeleted, handler)
	bus.Subscribe(events.ClickRecorded, handler)
	bus.Subscribe(events.SubscriptionChanged, handler)
}
