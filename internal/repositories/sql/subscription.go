package sql

import (
	"context"

	"github.com/MihaiMusteata/url-shortener/internal/models"
	"github.com/MihaiMusteata/url-shortener/internal/repositories"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SubscriptionRepo struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewSubscriptionRepo(db *gorm.DB, logger *logrus.Logger) *SubscriptionRepo {
	return &SubscriptionRepo{
		db:     db,
		logger: logger.WithField("module", "repository/sql/subscription"),
	}
}

// GetActiveByUserID находит активную подписку пользователя вместе с тарифным планом.
func (s *SubscriptionRepo) GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ? AND active = ?", userID, true).
		First(&sub).Error
	if err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			s.logger.WithError(err).Errorf("failed to get active subscription for user %s", userID)
		}
		return nil, convErr
	}
	return &sub, nil
}
