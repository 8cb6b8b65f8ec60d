package sql

import (
	"context"
	"time"

	"github.com/MihaiMusteata/url-shortener/internal/models"
	"github.com/MihaiMusteata/url-shortener/internal/repositories"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type LinkRepo struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewLinkRepo(db *gorm.DB, logger *logrus.Logger) *LinkRepo {
	return &LinkRepo{
		db:     db,
		logger: logger.WithField("module", "repository/sql/link"),
	}
}

func (l *LinkRepo) Create(ctx context.Context, link *models.ShortLink) error {
	if err := l.db.WithContext(ctx).Create(link).Error; err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			l.logger.WithError(err).Errorf("failed to create record %+v", *link)
		}
		return convErr
	}
	return nil
}

func (l *LinkRepo) GetByShortCode(ctx context.Context, code string) (*models.ShortLink, error) {
	var link models.ShortLink
	if err := l.db.WithContext(ctx).Where("short_code = ?", code).First(&link).Error; err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			l.logger.WithError(err).Errorf("failed to get record by short code %s", code)
		}
		return nil, convErr
	}
	return &link, nil
}

func (l *LinkRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ShortLink, error) {
	var link models.ShortLink
	if err := l.db.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			l.logger.WithError(err).Errorf("failed to get record by id %s", id)
		}
		return nil, convErr
	}
	return &link, nil
}

// GetByIDWithDetails возвращает ссылку вместе с QR-кодом и полным набором кликов.
// Агрегация по кликам считается в сервисном слое, поэтому поднимаем всю коллекцию сразу.
func (l *LinkRepo) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*models.ShortLink, error) {
	var link models.ShortLink
	err := l.db.WithContext(ctx).
		Preload("QrCode").
		Preload("LinkClicks").
		First(&link, "id = ?", id).Error
	if err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			l.logger.WithError(err).Errorf("failed to get record with details by id %s", id)
		}
		return nil, convErr
	}
	return &link, nil
}

func (l *LinkRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.ShortLink, error) {
	var links []models.ShortLink
	err := l.db.WithContext(ctx).
		Preload("QrCode").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&links).Error
	if err != nil {
		l.logger.WithError(err).Errorf("failed to list records by user id %s", userID)
		return nil, repositories.ErrUnknown
	}
	return links, nil
}

// ShortCodeExists проверяет занятость кода. Уникальный индекс покрывает и мягко
// удаленные строки, поэтому смотрим всю таблицу, а не только живые записи.
func (l *LinkRepo) ShortCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).
		Unscoped().
		Model(&models.ShortLink{}).
		Where("short_code = ?", code).
		Count(&count).Error
	if err != nil {
		l.logger.WithError(err).Errorf("failed to check short code %s", code)
		return false, repositories.ErrUnknown
	}
	return count > 0, nil
}

// CountCreatedInMonth считает ссылки созданные пользователем в заданном календарном месяце (UTC).
// Мягко удаленные записи тоже входят в счет, квота расходуется безвозвратно.
func (l *LinkRepo) CountCreatedInMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month) (int64, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var count int64
	err := l.db.WithContext(ctx).
		Unscoped().
		Model(&models.ShortLink{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Count(&count).Error
	if err != nil {
		l.logger.WithError(err).Errorf("failed to count records for user %s in %d-%02d", userID, year, month)
		return 0, repositories.ErrUnknown
	}
	return count, nil
}

// TrackClick инкрементирует счетчик переходов и добавляет строку клика одной транзакцией.
// Инкремент без строки (или наоборот) — баг консистентности, поэтому никаких частичных записей.
func (l *LinkRepo) TrackClick(ctx context.Context, linkID uuid.UUID, click *models.LinkClick) error {
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ShortLink{}).
			Where("id = ?", linkID).
			UpdateColumn("total_clicks", gorm.Expr("total_clicks + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(click).Error
	})
	if err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			l.logger.WithError(err).Errorf("failed to track click for link %s", linkID)
		}
		return convErr
	}
	return nil
}

// SoftDelete помечает ссылку удаленной и выключает резолв. Жесткого удаления нет.
func (l *LinkRepo) SoftDelete(ctx context.Context, link *models.ShortLink) error {
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if updErr := tx.Model(link).UpdateColumn("is_active", false).Error; updErr != nil {
			return updErr
		}
		return tx.Delete(link).Error
	})
	if err != nil {
		l.logger.WithError(err).Errorf("failed to soft delete link %s", link.ID)
		return repositories.ErrUnknown
	}
	return nil
}
