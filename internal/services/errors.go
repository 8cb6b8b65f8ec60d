package services

import "errors"

// Ошибки сервисного слоя. Контроллеры матчат их через errors.Is и мапят в статусы;
// ErrUpgradeRequired выделен отдельно чтобы границa могла отправить клиента на апгрейд
// тарифа, а не отдавать ему общую ошибку валидации.
var (
	ErrInvalidInput        = errors.New("[service]: invalid input")
	ErrUnauthorized        = errors.New("[service]: unauthorized")
	ErrForbidden           = errors.New("[service]: forbidden")
	ErrRecordNotFound      = errors.New("[service]: record not found")
	ErrLinkInactive        = errors.New("[service]: link inactive")
	ErrUpgradeRequired     = errors.New("[service]: upgrade required")
	ErrAliasTaken          = errors.New("[service]: alias already taken")
	ErrAllocationExhausted = errors.New("[service]: could not allocate unique alias")
	ErrPersistence         = errors.New("[service]: persistence error")
)
