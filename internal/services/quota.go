package services

import (
	"context"
	"time"

	"github.com/MihaiMusteata/url-shortener/internal/repositories"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// PlanSnapshot лимиты активного тарифного плана на момент вызова.
type PlanSnapshot struct {
	PlanID             uuid.UUID
	Name               string
	MaxLinksPerMonth   int
	CustomAliasEnabled bool
	QrEnabled          bool
}

// QuotaGate проверяет что у пользователя есть активный план и что запрошенная
// операция укладывается в его лимиты.
type QuotaGate struct {
	subs   SubscriptionRepository
	links  LinkRepository
	logger *logrus.Entry
}

func NewQuotaGate(subs SubscriptionRepository, links LinkRepository, logger *logrus.Logger) *QuotaGate {
	return &QuotaGate{
		subs:   subs,
		links:  links,
		logger: logger.WithField("module", "service/quota"),
	}
}

// Authorize возвращает срез плана либо ошибку с маркером ErrUpgradeRequired.
// Окно квоты — календарный месяц по UTC на момент вызова, не скользящие 30 дней:
// смена плана посреди месяца не пересчитывает уже созданные ссылки.
func (q *QuotaGate) Authorize(ctx context.Context, userID uuid.UUID, wantsCustomAlias, wantsQr bool) (*PlanSnapshot, error) {
	sub, subErr := q.subs.GetActiveByUserID(ctx, userID)
	if subErr != nil {
		if errors.Is(subErr, repositories.ErrNotFound) {
			q.logger.Warnf("create blocked: no active plan for user %s", userID)
			return nil, errors.Wrap(ErrUpgradeRequired, "no active plan")
		}
		return nil, errors.Wrap(ErrPersistence, subErr.Error())
	}
	if sub.Plan == nil {
		q.logger.Errorf("active subscription %s has no plan attached", sub.ID)
		return nil, errors.Wrap(ErrUpgradeRequired, "no active plan")
	}

	now := time.Now().UTC()
	created, countErr := q.links.CountCreatedInMonth(ctx, userID, now.Year(), now.Month())
	if countErr != nil {
		return nil, errors.Wrap(ErrPersistence, countErr.Error())
	}
	if created >= int64(sub.Plan.MaxLinksPerMonth) {
		q.logger.Warnf("create blocked: monthly limit reached for user %s (limit %d, created %d)",
			userID, sub.Plan.MaxLinksPerMonth, created)
		return nil, errors.Wrapf(ErrUpgradeRequired,
			"monthly limit reached (%d links/month)", sub.Plan.MaxLinksPerMonth)
	}

	if wantsCustomAlias && !sub.Plan.CustomAliasEnabled {
		q.logger.Warnf("create blocked: custom alias not allowed by plan for user %s", userID)
		return nil, errors.Wrap(ErrUpgradeRequired, "custom alias is not available on your plan")
	}
	if wantsQr && !sub.Plan.QrEnabled {
		q.logger.Warnf("create blocked: QR not allowed by plan for user %s", userID)
		return nil, errors.Wrap(ErrUpgradeRequired, "QR codes are not available on your plan")
	}

	return &PlanSnapshot{
		PlanID:             sub.Plan.ID,
		Name:               sub.Plan.Name,
		MaxLinksPerMonth:   sub.Plan.MaxLinksPerMonth,
		CustomAliasEnabled: sub.Plan.CustomAliasEnabled,
		QrEnabled:          sub.Plan.QrEnabled,
	}, nil
}
