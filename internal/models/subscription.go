package models

import "github.com/google/uuid"

// Plan тарифный план. Провиженинг планов и оплат лежит вне этого сервиса,
// мы только читаем лимиты.
type Plan struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string    `gorm:"size:64;not null"     json:"name"`
	PriceMonthly       float64   `gorm:"not null"             json:"priceMonthly"`
	MaxLinksPerMonth   int       `gorm:"not null"             json:"maxLinksPerMonth"`
	CustomAliasEnabled bool      `gorm:"not null"             json:"customAliasEnabled"`
	QrEnabled          bool      `gorm:"not null"             json:"qrEnabled"`
}

// Subscription подписка пользователя на тарифный план.
type Subscription struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	PlanID uuid.UUID `gorm:"type:uuid;not null"       json:"planId"`
	Active bool      `gorm:"not null"                 json:"active"`

	Plan *Plan `json:"plan,omitempty"`
}
