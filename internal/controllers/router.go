package controllers

import (
	"github.com/MihaiMusteata/url-shortener/internal/config"
	"github.com/MihaiMusteata/url-shortener/internal/controllers/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RouterParams struct {
	LinkService LinkProvider
	AppConf     *config.Config
	Logger      *logrus.Logger
}

func SetupRouter(p RouterParams) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware(p.Logger))
	r.Use(middlewares.GzipMiddleware())

	shortLinks := NewShortLinksController(p.LinkService)
	redirect := NewRedirectController(p.LinkService)

	r.GET("/:alias", redirect.Redirect)

	api := r.Group("/api")
	authorized := api.Group("/shortlinks", middlewares.AuthMiddleware([]byte(p.AppConf.JWTSecret)))
	authorized.POST("", shortLinks.Create)
	authorized.GET("", shortLinks.List)
	authorized.GET("/:id", shortLinks.GetDetails)
	authorized.DELETE("/:id", shortLinks.Delete)

	return r
}
