package services_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/MihaiMusteata/url-shortener/internal/cache"
	"github.com/MihaiMusteata/url-shortener/internal/events"
	"github.com/MihaiMusteata/url-shortener/internal/models"
	"github.com/MihaiMusteata/url-shortener/internal/repositories"
	"github.com/MihaiMusteata/url-shortener/internal/services"
	"github.com/MihaiMusteata/url-shortener/internal/services/smocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type linkServiceFixture struct {
	links *smocks.LinkRepoMock
	subs  *smocks.SubscriptionRepoMock
	bus   *events.Bus
	svc   *services.LinkService
}

func newLinkServiceFixture(t *testing.T) *linkServiceFixture {
	t.Helper()

	logger := testLogger()
	links := new(smocks.LinkRepoMock)
	subs := new(smocks.SubscriptionRepoMock)
	bus := events.NewBus(logger)

	svc := services.NewLinkService(services.LinkServiceParams{
		Links:     links,
		Quota:     services.NewQuotaGate(subs, links, logger),
		Allocator: services.NewAliasAllocator(links, logger),
		Cache:     services.NewLinkCache(cache.NewMemoryStore(), logger),
		Bus:       bus,
		BaseURL:   &url.URL{Scheme: "http", Host: "sho.rt"},
		Logger:    logger,
	})

	return &linkServiceFixture{links: links, subs: subs, bus: bus, svc: svc}
}

func (f *linkServiceFixture) allowPlan(userID uuid.UUID) {
	f.subs.On("GetActiveByUserID", mock.Anything, userID).
		Return(activeSubscription(userID, 100, true, true), nil)
	f.links.On("CountCreatedInMonth", mock.Anything, userID, mock.AnythingOfType("int"), mock.AnythingOfType("time.Month")).
		Return(int64(0), nil)
}

func TestLinkService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("missing identity", func(t *testing.T) {
		f := newLinkServiceFixture(t)
		_, err := f.svc.Create(ctx, uuid.Nil, services.CreateLinkRequest{URL: "example.com"})
		assert.ErrorIs(t, err, services.ErrUnauthorized)
	})

	t.Run("invalid url", func(t *testing.T) {
		f := newLinkServiceFixture(t)
		_, err := f.svc.Create(ctx, uuid.New(), services.CreateLinkRequest{URL: "   "})
		assert.ErrorIs(t, err, services.ErrInvalidInput)
	})

	t.Run("custom alias with qr", func(t *testing.T) {
		f := newLinkServiceFixture(t)
		userID := uuid.New()
		f.allowPlan(userID)
		f.links.On("ShortCodeExists", mock.Anything, "docs").Return(false, nil)
		f.links.On("Create", mock.Anything, mock.AnythingOfType("*models.ShortLink")).Return(nil)

		resp, err := f.svc.Create(ctx, userID, services.CreateLinkRequest{
			URL:         "example.com",
			CustomAlias: "docs",
			EnableQr:    true,
		})
		require.NoError(t, err)

		assert.Equal(t, "docs", resp.Alias)
		assert.Equal(t, "http://sho.rt/docs", resp.ShortURL)
		assert.Contains(t, resp.QrURL, "api.qrserver.com")
		assert.Contains(t, resp.QrURL, url.QueryEscape("http://sho.rt/docs"))

		// в хранилище ушла нормализованная ссылка и активная запись
		saved := f.links.Calls[len(f.links.Calls)-1].Arguments.Get(1).(*models.ShortLink)
		assert.Equal(t, "https://example.com", saved.OriginalURL)
		assert.True(t, saved.IsActive)
		require.NotNil(t, saved.QrCode)
		assert.Equal(t, "png", saved.QrCode.Format)
	})

	t.Run("lost alias race maps to taken", func(t *testing.T) {
		f := newLinkServiceFixture(t)
		userID := uuid.New()
		f.allowPlan(userID)
		f.links.On("ShortCodeExists", mock.Anything, "docs").Return(false, nil)
		f.links.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDuplicateKey)

		_, err := f.svc.Create(ctx, userID, services.CreateLinkRequest{URL: "example.com", CustomAlias: "docs"})
		assert.ErrorIs(t, err, services.ErrAliasTaken)
	})

	t.Run("create publishes event and primes resolve cache", func(t *testing.T) {
		f := newLinkServiceFixture(t)
		userID := uuid.New()
		f.allowPlan(userID)
		f.links.On("ShortCodeExists", mock.Anything, "docs").Return(false, nil)
		f.links.On("Create", mock.Anything, mock.Anything).Return(nil)

		var published []events.Event
		f.bus.Subscribe(events.LinkCreated, func(events.Payload) {
			published = append(published, events.LinkCreated)
		})

		_, err := f.svc.Create(ctx, userID, services.CreateLinkRequest{URL: "example.com", CustomAlias: "docs"})
		require.NoError(t, err)
		assert.Equal(t, []events.Event{events.LinkCreated}, published)
	})
}

func TestLinkService_ResolveAndTrack(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed alias rejected without store lookup", func(t *testing.T) {
		f := newLinkServiceFixture(t)
		_, err := f.svc.ResolveAndTrack(ctx, "a!", "", "")
		assert.ErrorIs(t, err, services.ErrInvalidInput)
		f.links.AssertNotCalled(t, "GetByShortCode")
	})

	t.Run("unknown alias", func(t *testing.T) {
		f := newLinkServiceFixture(t)
		f.links.On("GetByShortCode", mock.Anything, "unknown").Return(nil, repositories.ErrNotFound)

		_, err := f.svc.ResolveAndTrack(ctx, "unknown", "", "")
		assert.ErrorIs(t, err, services.ErrRecordNotFound)
	})

	t.Run("inactive link", func(t *testing.T) {
		f := newLinkServiceFixture(t)
		f.links.On("GetByShortCode", mock.Anything, "frozen").Return(&models.ShortLink{
			ID:        uuid.New(),
			ShortCode: "frozen",
			IsActive:  false,
		}, nil)

		_, err := f.svc.ResolveAndTrack(ctx, "frozen", "", "")
		assert.ErrorIs(t, err, services.ErrLinkInactive)
		f.links.AssertNotCalled(t, "TrackClick")
	})

	t.Run("success tracks exactly one click", func(t *testing.T) {
		f := newLinkServiceFixture(t)
		linkID := uuid.New()
		before := time.Now().UTC()

		f.links.On("GetByShortCode", mock.Anything, "docs").Return(&models.ShortLink{
			ID:          linkID,
			UserID:      uuid.New(),
			ShortCode:   "docs",
			OriginalURL: "https://example.com",
			IsActive:    true,
		}, nil)
		f.links.On("TrackClick", mock.Anything, linkID, mock.AnythingOfType("*models.LinkClick")).Return(nil).Once()

		got, err := f.svc.ResolveAndTrack(ctx, "docs", "https://google.com/search", "curl/8.4.0")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got)

		f.links.AssertNumberOfCalls(t, "TrackClick", 1)
		click := f.links.Calls[len(f.links.Calls)-1].Arguments.Get(2).(*models.LinkClick)
		assert.Equal(t, linkID, click.ShortLinkID)
		assert.Equal(t, "https://google.com/search", click.Referer)
		assert.False(t, click.ClickedAt.Before(before))
	})

	t.Run("tracking failure fails the resolve", func(t *testing.T) {
		f := newLinkServiceFixture(t)
		linkID := uuid.New()

		f.links.On("GetByShortCode", mock.Anything, "docs").Return(&models.ShortLink{
			ID:          linkID,
			ShortCode:   "docs",
			OriginalURL: "https://example.com",
			IsActive:    true,
		}, nil)
		f.links.On("TrackClick", mock.Anything, linkID, mock.Anything).Return(repositories.ErrUnknown)

		_, err := f.svc.ResolveAndTrack(ctx, "docs", "", "")
		assert.ErrorIs(t, err, services.ErrPersistence)
	})
}

func TestLinkService_GetDetails(t *testing.T) {
	ctx := context.Background()

	t.Run("forbidden for non owner", func(t *testing.T) {
		f := newLinkServiceFixture(t)
		linkID := uuid.New()
		f.links.On("GetByIDWithDetails", mock.Anything, linkID).Return(&models.ShortLink{
			ID:     linkID,
			UserID: uuid.New(),
		}, nil)

		_, err := f.svc.GetDetails(ctx, uuid.New(), linkID)
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("computes and caches view", func(t *testing.T) {
		f := newLinkServiceFixture(t)
		userID := uuid.New()
		linkID := uuid.New()
		link := &models.ShortLink{
			ID:          linkID,
			UserID:      userID,
			ShortCode:   "docs",
			OriginalURL: "https://example.com",
			IsActive:    true,
			TotalClicks: 3,
		}

		f.links.On("GetByIDWithDetails", mock.Anything, linkID).Return(link, nil).Once()
		f.links.On("GetByID", mock.Anything, linkID).Return(link, nil)

		view, err := f.svc.GetDetails(ctx, userID, linkID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), view.TotalClicks)
		assert.Len(t, view.ClicksLast7Days, 7)

		// второй вызов идет из кеша, полный подъем деталей не повторяется
		_, err = f.svc.GetDetails(ctx, userID, linkID)
		require.NoError(t, err)
		f.links.AssertNumberOfCalls(t, "GetByIDWithDetails", 1)
	})
}

func TestLinkService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes", func(t *testing.T) {
		f := newLinkServiceFixture(t)
		userID := uuid.New()
		linkID := uuid.New()
		link := &models.ShortLink{ID: linkID, UserID: userID, ShortCode: "docs"}

		f.links.On("GetByID", mock.Anything, linkID).Return(link, nil)
		f.links.On("SoftDelete", mock.Anything, link).Return(nil).Once()

		require.NoError(t, f.svc.Delete(ctx, userID, linkID))
		f.links.AssertExpectations(t)
	})

	t.Run("non owner forbidden", func(t *testing.T) {
		f := newLinkServiceFixture(t)
		linkID := uuid.New()
		f.links.On("GetByID", mock.Anything, linkID).Return(&models.ShortLink{ID: linkID, UserID: uuid.New()}, nil)

		err := f.svc.Delete(ctx, uuid.New(), linkID)
		assert.ErrorIs(t, err, services.ErrForbidden)
		f.links.AssertNotCalled(t, "SoftDelete")
	})
}
