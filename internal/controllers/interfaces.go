package controllers

import (
	"context"

	"github.com/MihaiMusteata/url-shortener/internal/services"
	"github.com/google/uuid"
)

// LinkProvider описывает операции ядра нужные контроллерам.
type LinkProvider interface {
	Create(ctx context.Context, userID uuid.UUID, req services.CreateLinkRequest) (*services.CreateLinkResponse, error)
	ResolveAndTrack(ctx context.Context, alias, referrer, userAgent string) (string, error)
	GetDetails(ctx context.Context, userID, linkID uuid.UUID) (*services.DetailsView, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]services.LinkSummary, error)
	Delete(ctx context.Context, userID, linkID uuid.UUID) error
}
