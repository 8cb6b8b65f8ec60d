package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShortCodeLength длина генерируемого кода короткой ссылки.
const ShortCodeLength = 7

// ShortLink структура модели хранения короткой ссылки.
//
// Код уникален на уровне индекса в хранилище; проверки на существование в сервисном
// слое носят рекомендательный характер, последнее слово остается за индексом.
type ShortLink struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"      json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;index;not null"  json:"userId"`
	OriginalURL string         `gorm:"size:2048;not null"        json:"originalUrl"`
	ShortCode   string         `gorm:"size:32;uniqueIndex;not null" json:"shortCode"`
	IsActive    bool           `gorm:"not null"                  json:"isActive"`
	TotalClicks int64          `gorm:"not null;default:0"        json:"totalClicks"`
	CreatedAt   time.Time      `json:"createdAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index"                     json:"deletedAt"`

	QrCode     *QrCode     `json:"qrCode,omitempty"`
	LinkClicks []LinkClick `json:"-"`
}

// LinkClick событие перехода по короткой ссылке. Записи только добавляются,
// никогда не изменяются и не удаляются.
type LinkClick struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	ShortLinkID uuid.UUID `gorm:"type:uuid;index;not null" json:"shortLinkId"`
	ClickedAt   time.Time `gorm:"index;not null"           json:"clickedAt"`
	Referer     string    `gorm:"type:text"                json:"referer"`
	UserAgent   string    `gorm:"type:text"                json:"userAgent"`
}

// QrCode описание QR-кода ссылки. Создается только при создании ссылки и не изменяется.
// Сама картинка рендерится внешним сервисом, мы храним лишь URL файла.
type QrCode struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"           json:"id"`
	ShortLinkID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"shortLinkId"`
	Format      string    `gorm:"size:16;not null"               json:"format"`
	FileURL     string    `gorm:"size:1024;not null"             json:"fileUrl"`
}
