package controllers

import (
	"errors"
	"net/http"

	"github.com/MihaiMusteata/url-shortener/internal/services"
	"github.com/gin-gonic/gin"
)

type RedirectController struct {
	linkService LinkProvider
}

func NewRedirectController(linkService LinkProvider) *RedirectController {
	return &RedirectController{linkService: linkService}
}

// Redirect обрабатывает GET /:alias без авторизации.
func (r *RedirectController) Redirect(ctx *gin.Context) {
	alias := ctx.Param("alias")

	// Дешевая отбраковка кривого алиаса без похода в хранилище.
	if !services.IsValidAlias(alias) {
		ctx.Status(http.StatusNotFound)
		return
	}

	originalURL, err := r.linkService.ResolveAndTrack(
		ctx.Request.Context(),
		alias,
		ctx.Request.Referer(),
		ctx.Request.UserAgent(),
	)
	if err != nil {
		// Не найдено и выключено наружу неразличимы.
		if errors.Is(err, services.ErrRecordNotFound) ||
			errors.Is(err, services.ErrLinkInactive) ||
			errors.Is(err, services.ErrInvalidInput) {
			ctx.Status(http.StatusNotFound)
			return
		}
		_ = ctx.Error(err)
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.Redirect(http.StatusTemporaryRedirect, originalURL)
}
