package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/MihaiMusteata/url-shortener/internal/events"
	"github.com/MihaiMusteata/url-shortener/internal/models"
	"github.com/MihaiMusteata/url-shortener/internal/repositories"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// qrRenderEndpoint внешний сервис рендеринга QR-кодов. Пиксели мы не рисуем,
// храним только URL картинки.
const qrRenderEndpoint = "https://api.qrserver.com/v1/create-qr-code/"

// CreateLinkRequest запрос на создание короткой ссылки.
type CreateLinkRequest struct {
	URL         string `json:"url"`
	CustomAlias string `json:"customAlias"`
	EnableQr    bool   `json:"enableQr"`
}

// CreateLinkResponse результат создания короткой ссылки.
type CreateLinkResponse struct {
	ID       uuid.UUID `json:"id"`
	Alias    string    `json:"alias"`
	ShortURL string    `json:"shortUrl"`
	QrURL    string    `json:"qrUrl,omitempty"`
}

// LinkSummary строка списка ссылок пользователя.
type LinkSummary struct {
	ID          uuid.UUID `json:"id"`
	Alias       string    `json:"alias"`
	ShortURL    string    `json:"shortUrl"`
	OriginalURL string    `json:"originalUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	QrEnabled   bool      `json:"qrEnabled"`
	Clicks      int64     `json:"clicks"`
}

// LinkService ядро сервиса: создание ссылок под квотами, резолв с трекингом кликов
// и агрегированная аналитика, все через cache-aside слой.
type LinkService struct {
	links     LinkRepository
	quota     *QuotaGate
	allocator *AliasAllocator
	cache     *LinkCache
	bus       *events.Bus
	baseURL   string
	logger    *logrus.Entry
}

type LinkServiceParams struct {
	Links     LinkRepository
	Quota     *QuotaGate
	Allocator *AliasAllocator
	Cache     *LinkCache
	Bus       *events.Bus
	BaseURL   *url.URL
	Logger    *logrus.Logger
}

func NewLinkService(p LinkServiceParams) *LinkService {
	return &LinkService{
		links:     p.Links,
		quota:     p.Quota,
		allocator: p.Allocator,
		cache:     p.Cache,
		bus:       p.Bus,
		baseURL:   strings.TrimRight(p.BaseURL.String(), "/"),
		logger:    p.Logger.WithField("module", "service/link"),
	}
}

// ShortURL строит полную короткую ссылку для кода.
func (s *LinkService) ShortURL(code string) string {
	return s.baseURL + "/" + code
}

func (s *LinkService) qrFileURL(shortURL string) string {
	return qrRenderEndpoint + "?size=220x220&data=" + url.QueryEscape(shortURL)
}

// Create создает короткую ссылку: нормализация URL, квоты, аллокация кода,
// транзакционная запись, событие и прогрев кеша резолва.
func (s *LinkService) Create(ctx context.Context, userID uuid.UUID, req CreateLinkRequest) (*CreateLinkResponse, error) {
	if userID == uuid.Nil {
		return nil, errors.Wrap(ErrUnauthorized, "missing caller identity")
	}

	normalized, ok := NormalizeURL(req.URL)
	if !ok {
		s.logger.Warnf("create failed: invalid url %q for user %s", req.URL, userID)
		return nil, errors.Wrap(ErrInvalidInput, "invalid URL")
	}

	wantsCustom := strings.TrimSpace(req.CustomAlias) != ""
	plan, planErr := s.quota.Authorize(ctx, userID, wantsCustom, req.EnableQr)
	if planErr != nil {
		return nil, planErr
	}

	code, codeErr := s.allocator.Allocate(ctx, plan, strings.TrimSpace(req.CustomAlias))
	if codeErr != nil {
		return nil, codeErr
	}

	link := &models.ShortLink{
		ID:          uuid.New(),
		UserID:      userID,
		OriginalURL: normalized,
		ShortCode:   code,
		IsActive:    true,
		TotalClicks: 0,
		CreatedAt:   time.Now().UTC(),
	}

	if req.EnableQr {
		shortURL := s.ShortURL(code)
		link.QrCode = &models.QrCode{
			ID:          uuid.New(),
			ShortLinkID: link.ID,
			Format:      "png",
			FileURL:     s.qrFileURL(shortURL),
		}
	}

	if createErr := s.links.Create(ctx, link); createErr != nil {
		if errors.Is(createErr, repositories.ErrDuplicateKey) {
			// Проверка существования была рекомендательной, индекс сказал свое слово.
			if wantsCustom {
				s.logger.Warnf("create lost the alias race: %s", code)
				return nil, errors.Wrapf(ErrAliasTaken, "alias %s", code)
			}
			return nil, ErrAllocationExhausted
		}
		return nil, errors.Wrap(ErrPersistence, createErr.Error())
	}

	s.bus.Publish(events.LinkCreated, events.Payload{UserID: userID, LinkID: link.ID})
	s.cache.PrimeResolve(ctx, link.ShortCode, link.OriginalURL)

	s.logger.Infof("short link created: user %s, link %s, alias %s, qr %t",
		userID, link.ID, link.ShortCode, link.QrCode != nil)

	resp := &CreateLinkResponse{
		ID:       link.ID,
		Alias:    link.ShortCode,
		ShortURL: s.ShortURL(link.ShortCode),
	}
	if link.QrCode != nil {
		resp.QrURL = link.QrCode.FileURL
	}
	return resp, nil
}

// ResolveAndTrack резолвит алиас в оригинальный URL и фиксирует переход.
// Счетчик и строка клика пишутся одной транзакцией; если трекинг не записался,
// резолв считается неуспешным целиком.
func (s *LinkService) ResolveAndTrack(ctx context.Context, alias, referrer, userAgent string) (string, error) {
	if !IsValidAlias(alias) {
		return "", errors.Wrapf(ErrInvalidInput, "alias %q", alias)
	}

	// Быстрый путь только сигнализирует о свежести; сущность поднимаем всегда,
	// трекинг без нее невозможен.
	if _, hit := s.cache.GetResolve(ctx, alias); hit {
		s.logger.Debugf("resolve cache hit: %s", alias)
	} else {
		s.logger.Debugf("resolve cache miss: %s", alias)
	}

	link, getErr := s.links.GetByShortCode(ctx, alias)
	if getErr != nil {
		if errors.Is(getErr, repositories.ErrNotFound) {
			s.logger.Warnf("resolve failed: alias %s not found", alias)
			return "", errors.Wrapf(ErrRecordNotFound, "alias %s", alias)
		}
		return "", errors.Wrap(ErrPersistence, getErr.Error())
	}

	if !link.IsActive {
		s.logger.Warnf("resolve blocked: link %s inactive", link.ID)
		return "", errors.Wrapf(ErrLinkInactive, "alias %s", alias)
	}

	click := &models.LinkClick{
		ID:          uuid.New(),
		ShortLinkID: link.ID,
		ClickedAt:   time.Now().UTC(),
		Referer:     referrer,
		UserAgent:   userAgent,
	}
	if trackErr := s.links.TrackClick(ctx, link.ID, click); trackErr != nil {
		s.logger.WithError(trackErr).Errorf("failed to track click for alias %s", alias)
		return "", errors.Wrap(ErrPersistence, "tracking click")
	}

	s.cache.PrimeResolve(ctx, alias, link.OriginalURL)
	s.cache.InvalidateDetails(ctx, link.ID)
	s.bus.Publish(events.ClickRecorded, events.Payload{UserID: link.UserID, LinkID: link.ID})

	s.logger.Infof("resolve & track: alias %s, link %s", alias, link.ID)
	return link.OriginalURL, nil
}

// GetDetails возвращает агрегированное представление ссылки владельцу.
func (s *LinkService) GetDetails(ctx context.Context, userID, linkID uuid.UUID) (*DetailsView, error) {
	if userID == uuid.Nil {
		return nil, errors.Wrap(ErrUnauthorized, "missing caller identity")
	}
	if linkID == uuid.Nil {
		return nil, errors.Wrap(ErrInvalidInput, "empty link id")
	}

	if view, hit := s.cache.GetDetails(ctx, linkID); hit {
		// Представление могло быть посчитано до конкурентного клика; 30 секунд TTL
		// ограничивают это окно. Владение проверяем и на закешированном пути.
		s.logger.Debugf("details cache hit: %s", linkID)
		if ownerErr := s.checkOwnership(ctx, userID, linkID); ownerErr != nil {
			return nil, ownerErr
		}
		return view, nil
	}

	link, getErr := s.links.GetByIDWithDetails(ctx, linkID)
	if getErr != nil {
		if errors.Is(getErr, repositories.ErrNotFound) {
			return nil, errors.Wrapf(ErrRecordNotFound, "link %s", linkID)
		}
		return nil, errors.Wrap(ErrPersistence, getErr.Error())
	}
	if link.UserID != userID {
		s.logger.Warnf("details forbidden: user %s, link %s, owner %s", userID, linkID, link.UserID)
		return nil, errors.Wrapf(ErrForbidden, "link %s", linkID)
	}

	view := BuildDetails(link, s.ShortURL(link.ShortCode), time.Now())
	s.cache.SetDetails(ctx, &view)

	s.logger.Infof("details computed: link %s, total clicks %d", linkID, view.TotalClicks)
	return &view, nil
}

// ListByOwner возвращает ссылки пользователя, новые первыми.
func (s *LinkService) ListByOwner(ctx context.Context, userID uuid.UUID) ([]LinkSummary, error) {
	if userID == uuid.Nil {
		return nil, errors.Wrap(ErrUnauthorized, "missing caller identity")
	}

	links, err := s.links.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(ErrPersistence, err.Error())
	}

	summaries := make([]LinkSummary, 0, len(links))
	for _, l := range links {
		summaries = append(summaries, LinkSummary{
			ID:          l.ID,
			Alias:       l.ShortCode,
			ShortURL:    s.ShortURL(l.ShortCode),
			OriginalURL: l.OriginalURL,
			CreatedAt:   l.CreatedAt,
			QrEnabled:   l.QrCode != nil,
			Clicks:      l.TotalClicks,
		})
	}
	return summaries, nil
}

// Delete мягко удаляет ссылку владельца и гасит ее кеши. Код не возвращается в оборот.
func (s *LinkService) Delete(ctx context.Context, userID, linkID uuid.UUID) error {
	if userID == uuid.Nil {
		return errors.Wrap(ErrUnauthorized, "missing caller identity")
	}

	link, getErr := s.links.GetByID(ctx, linkID)
	if getErr != nil {
		if errors.Is(getErr, repositories.ErrNotFound) {
			return errors.Wrapf(ErrRecordNotFound, "link %s", linkID)
		}
		return errors.Wrap(ErrPersistence, getErr.Error())
	}
	if link.UserID != userID {
		return errors.Wrapf(ErrForbidden, "link %s", linkID)
	}

	if delErr := s.links.SoftDelete(ctx, link); delErr != nil {
		return errors.Wrap(ErrPersistence, delErr.Error())
	}

	s.cache.InvalidateResolve(ctx, link.ShortCode)
	s.cache.InvalidateDetails(ctx, link.ID)
	s.bus.Publish(events.LinkDeleted, events.Payload{UserID: userID, LinkID: link.ID})

	s.logger.Infof("short link deleted: user %s, link %s", userID, linkID)
	return nil
}

// checkOwnership подтверждает владение без подъема коллекции кликов.
func (s *LinkService) checkOwnership(ctx context.Context, userID, linkID uuid.UUID) error {
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errors.Wrapf(ErrRecordNotFound, "link %s", linkID)
		}
		return errors.Wrap(ErrPersistence, err.Error())
	}
	if link.UserID != userID {
		return errors.Wrapf(ErrForbidden, "link %s", linkID)
	}
	return nil
}
