package smocks

import (
	"context"

	"github.com/MihaiMusteata/url-shortener/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type LinkProviderMock struct {
	mock.Mock
}

func (m *LinkProviderMock) Create(ctx context.Context, userID uuid.UUID, req services.CreateLinkRequest) (*services.CreateLinkResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*services.CreateLinkResponse), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinkProviderMock) ResolveAndTrack(ctx context.Context, alias, referrer, userAgent string) (string, error) {
	args := m.Called(ctx, alias, referrer, userAgent)
	return args.String(0), args.Error(1) //nolint:wrapcheck
}

func (m *LinkProviderMock) GetDetails(ctx context.Context, userID, linkID uuid.UUID) (*services.DetailsView, error) {
	args := m.Called(ctx, userID, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*services.DetailsView), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinkProviderMock) ListByOwner(ctx context.Context, userID uuid.UUID) ([]services.LinkSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).([]services.LinkSummary), args.Error(1) //nolint:wrapcheck,errcheck
}

func (m *LinkProviderMock) Delete(ctx context.Context, userID, linkID uuid.UUID) error {
	args := m.Called(ctx, userID, linkID)
	return args.Error(0) //nolint:wrapcheck
}
