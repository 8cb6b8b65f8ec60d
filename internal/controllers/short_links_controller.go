package controllers

import (
	"errors"
	"net/http"

	"github.com/MihaiMusteata/url-shortener/internal/controllers/middlewares"
	"github.com/MihaiMusteata/url-shortener/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ShortLinksController struct {
	linkService LinkProvider
}

func NewShortLinksController(linkService LinkProvider) *ShortLinksController {
	return &ShortLinksController{linkService: linkService}
}

// Create обрабатывает POST /api/shortlinks.
func (s *ShortLinksController) Create(ctx *gin.Context) {
	userID, ok := middlewares.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req services.CreateLinkRequest
	if bindErr := ctx.ShouldBindJSON(&req); bindErr != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := s.linkService.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		s.renderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// List обрабатывает GET /api/shortlinks.
func (s *ShortLinksController) List(ctx *gin.Context) {
	userID, ok := middlewares.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	links, err := s.linkService.ListByOwner(ctx.Request.Context(), userID)
	if err != nil {
		s.renderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, links)
}

// GetDetails обрабатывает GET /api/shortlinks/:id.
func (s *ShortLinksController) GetDetails(ctx *gin.Context) {
	userID, ok := middlewares.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	linkID, parseErr := uuid.Parse(ctx.Param("id"))
	if parseErr != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "link not found"})
		return
	}

	view, err := s.linkService.GetDetails(ctx.Request.Context(), userID, linkID)
	if err != nil {
		s.renderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

// Delete обрабатывает DELETE /api/shortlinks/:id.
func (s *ShortLinksController) Delete(ctx *gin.Context) {
	userID, ok := middlewares.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	linkID, parseErr := uuid.Parse(ctx.Param("id"))
	if parseErr != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "link not found"})
		return
	}

	if err := s.linkService.Delete(ctx.Request.Context(), userID, linkID); err != nil {
		s.renderError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// renderError мапит ошибки сервисного слоя в HTTP статусы.
// Сообщение ErrUpgradeRequired уходит клиенту как есть, фронт по нему ведет на апгрейд тарифа.
func (s *ShortLinksController) renderError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, services.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, services.ErrRecordNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "link not found"})
	case errors.Is(err, services.ErrAliasTaken):
		ctx.JSON(http.StatusConflict, gin.H{"error": "custom alias is already taken"})
	case errors.Is(err, services.ErrUpgradeRequired):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "upgradeRequired": true})
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrAllocationExhausted):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
