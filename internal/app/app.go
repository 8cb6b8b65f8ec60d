package app

import (
	"context"
	"fmt"
	"net/url"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/MihaiMusteata/url-shortener/internal/cache"
	"github.com/MihaiMusteata/url-shortener/internal/config"
	"github.com/MihaiMusteata/url-shortener/internal/controllers"
	"github.com/MihaiMusteata/url-shortener/internal/db"
	"github.com/MihaiMusteata/url-shortener/internal/events"
	"github.com/MihaiMusteata/url-shortener/internal/services"
)

type App struct {
	config     config.Config
	dbServices *services.Services
	cacheStore cache.Store
	Logger     *logrus.Logger
}

func New(conf config.Config) (*App, error) {
	ctx := context.Background()

	conn, connErr := db.NewSQLite(conf.DatabasePath)
	if connErr != nil {
		return nil, fmt.Errorf("init database: %w", connErr)
	}

	cacheStore, cacheErr := cache.Factory(ctx, &conf)
	if cacheErr != nil {
		return nil, fmt.Errorf("init cache: %w", cacheErr)
	}

	bus := events.NewBus(conf.Logger)

	baseURL := conf.BaseURL
	if baseURL == nil {
		baseURL = &url.URL{Scheme: "http", Host: conf.ServerAddress}
	}

	dbServices := services.Factory(conn, cacheStore, bus, baseURL, conf.Logger)

	return &App{
		config:     conf,
		dbServices: dbServices,
		cacheStore: cacheStore,
		Logger:     conf.Logger,
	}, nil
}

// Must вызывает панику если произошла ошибка.
func Must(a *App, err error) *App {
	if err != nil {
		panic(err)
	}
	return a
}

// Run запускает web сервер и ждет сигнала остановки.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)

	server := controllers.SetupRouter(controllers.RouterParams{
		LinkService: a.dbServices.LinkService,
		AppConf:     &a.config,
		Logger:      a.Logger,
	})

	go func() {
		if err := server.Run(a.config.ServerAddress); err != nil {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Shutdown command received")
	case serverErr = <-errChan:
		a.Logger.WithError(serverErr).Error("router error")
	}

	if closeErr := a.cacheStore.Close(); closeErr != nil {
		a.Logger.WithError(closeErr).Error("closing cache store")
	}

	return serverErr
}
