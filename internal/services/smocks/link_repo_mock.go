package smocks

import (
	"context"
	"time"

	"github.com/MihaiMusteata/url-shortener/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type LinkRepoMock struct {
	mock.Mock
}

func (m *LinkRepoMock) Create(ctx context.Context, link *models.ShortLink) error {
	args := m.Called(ctx, link)
	return args.Error(0) //nolint:wrapcheck
}

func (m *LinkRepoMock) GetByShortCode(ctx context.Context, code string) (*models.ShortLink, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.ShortLink), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinkRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*models.ShortLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.ShortLink), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinkRepoMock) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*models.ShortLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.ShortLink), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinkRepoMock) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.ShortLink, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).([]models.ShortLink), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinkRepoMock) ShortCodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1) //nolint:wrapcheck
}

func (m *LinkRepoMock) CountCreatedInMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month) (int64, error) {
	args := m.Called(ctx, userID, year, month)
	return args.Get(0).(int64), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinkRepoMock) TrackClick(ctx context.Context, linkID uuid.UUID, click *models.LinkClick) error {
	args := m.Called(ctx, linkID, click)
	return args.Error(0) //nolint:wrapcheck
}

func (m *LinkRepoMock) SoftDelete(ctx context.Context, link *models.ShortLink) error {
	args := m.Called(ctx, link)
	return args.Error(0) //nolint:wrapcheck
}
