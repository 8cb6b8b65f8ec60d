package services

import (
	"context"
	"time"

	"github.com/MihaiMusteata/url-shortener/internal/models"
	"github.com/google/uuid"
)

// LinkRepository описывает репозиторий коротких ссылок.
type LinkRepository interface {
	// Create создает запись ссылки; на нарушение уникального индекса по коду
	// возвращает repositories.ErrDuplicateKey.
	Create(ctx context.Context, link *models.ShortLink) error
	// GetByShortCode находит живую (не удаленную) ссылку по коду.
	GetByShortCode(ctx context.Context, code string) (*models.ShortLink, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ShortLink, error)
	// GetByIDWithDetails поднимает ссылку вместе с QR-кодом и всеми кликами.
	GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*models.ShortLink, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.ShortLink, error)
	ShortCodeExists(ctx context.Context, code string) (bool, error)
	CountCreatedInMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month) (int64, error)
	// TrackClick инкремент счетчика + строка клика одной транзакцией.
	TrackClick(ctx context.Context, linkID uuid.UUID, click *models.LinkClick) error
	SoftDelete(ctx context.Context, link *models.ShortLink) error
}

// SubscriptionRepository описывает доступ к подпискам (внешний коллаборатор).
type SubscriptionRepository interface {
	GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
}
