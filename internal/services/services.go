package services

import (
	"net/url"

	"github.com/MihaiMusteata/url-shortener/internal/cache"
	"github.com/MihaiMusteata/url-shortener/internal/events"
	"github.com/MihaiMusteata/url-shortener/internal/repositories/sql"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Services сервисный слой приложения.
type Services struct {
	LinkService  *LinkService
	ProfileCache *ProfileCache
}

// Factory собирает сервисный слой поверх подключения к базе и кеша.
func Factory(conn *gorm.DB, store cache.Store, bus *events.Bus, baseURL *url.URL, logger *logrus.Logger) *Services {
	linkRepo := sql.NewLinkRepo(conn, logger)
	subRepo := sql.NewSubscriptionRepo(conn, logger)

	linkCache := NewLinkCache(store, logger)
	quota := NewQuotaGate(subRepo, linkRepo, logger)
	allocator := NewAliasAllocator(linkRepo, logger)

	profileCache := NewProfileCache(store, logger)
	profileCache.RegisterInvalidation(bus)

	linkService := NewLinkService(LinkServiceParams{
		Links:     linkRepo,
		Quota:     quota,
		Allocator: allocator,
		Cache:     linkCache,
		Bus:       bus,
		BaseURL:   baseURL,
		Logger:    logger,
	})

	return &Services{
		LinkService:  linkService,
		ProfileCache: profileCache,
	}
}
