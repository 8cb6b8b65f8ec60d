package smocks

import (
	"context"

	"github.com/MihaiMusteata/url-shortener/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type SubscriptionRepoMock struct {
	mock.Mock
}

func (m *SubscriptionRepoMock) GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.Subscription), args.Error(1) //nolint:wrapcheck,errcheck
}
