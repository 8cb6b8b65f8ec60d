package services

import (
	"context"

	"github.com/MihaiMusteata/url-shortener/internal/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// generateAttempts предел попыток подбора сгенерированного кода. При пространстве
// в 32^7 кодов и проверке существования на каждой попытке исчерпание лимита
// практически означает исчерпание самого пространства.
const generateAttempts = 10

// AliasAllocator выдает уникальный код для новой ссылки: либо проверяет
// пользовательский алиас, либо подбирает сгенерированный.
//
// Проверки существования здесь рекомендательные — два конкурентных запроса могут
// обе пройти проверку до записи. Авторитетный заслон — уникальный индекс хранилища,
// его нарушение сервис переводит в ErrAliasTaken / ErrAllocationExhausted.
type AliasAllocator struct {
	links  LinkRepository
	logger *logrus.Entry
}

func NewAliasAllocator(links LinkRepository, logger *logrus.Logger) *AliasAllocator {
	return &AliasAllocator{
		links:  links,
		logger: logger.WithField("module", "service/allocator"),
	}
}

// Allocate возвращает код для ссылки. Пустой customAlias означает генерацию.
func (a *AliasAllocator) Allocate(ctx context.Context, plan *PlanSnapshot, customAlias string) (string, error) {
	if customAlias != "" {
		return a.allocateCustom(ctx, plan, customAlias)
	}
	return a.allocateGenerated(ctx)
}

func (a *AliasAllocator) allocateCustom(ctx context.Context, plan *PlanSnapshot, alias string) (string, error) {
	if !plan.CustomAliasEnabled {
		return "", errors.Wrap(ErrUpgradeRequired, "custom alias is not available on your plan")
	}
	if !IsValidAlias(alias) {
		return "", errors.Wrapf(ErrInvalidInput,
			"custom alias must be %d-%d chars (letters, numbers, - or _)", AliasMinLength, AliasMaxLength)
	}

	taken, err := a.links.ShortCodeExists(ctx, alias)
	if err != nil {
		return "", errors.Wrap(ErrPersistence, err.Error())
	}
	if taken {
		a.logger.Warnf("custom alias %s already taken", alias)
		return "", errors.Wrapf(ErrAliasTaken, "alias %s", alias)
	}
	return alias, nil
}

func (a *AliasAllocator) allocateGenerated(ctx context.Context) (string, error) {
	for attempt := 0; attempt < generateAttempts; attempt++ {
		code, genErr := GenerateCode(models.ShortCodeLength)
		if genErr != nil {
			return "", errors.Wrap(ErrPersistence, genErr.Error())
		}

		taken, err := a.links.ShortCodeExists(ctx, code)
		if err != nil {
			return "", errors.Wrap(ErrPersistence, err.Error())
		}
		if !taken {
			return code, nil
		}
		a.logger.Debugf("generated code collision on attempt %d", attempt+1)
	}

	a.logger.Error("could not generate unique alias, retry bound exhausted")
	return "", ErrAllocationExhausted
}
