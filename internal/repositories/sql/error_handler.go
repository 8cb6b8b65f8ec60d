package sql

import (
	"strings"

	"github.com/MihaiMusteata/url-shortener/internal/repositories"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// convertErrorType переводит ошибки gorm в ошибки слоя репозитория.
// Драйвер sqlite не всегда транслирует нарушение уникального индекса
// в gorm.ErrDuplicatedKey, поэтому дополнительно смотрим на текст.
func convertErrorType(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE"):
		return repositories.ErrDuplicateKey
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	default:
		return repositories.ErrUnknown
	}
}
