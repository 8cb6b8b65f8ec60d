package main

import (
	"context"
	"errors"

	"github.com/MihaiMusteata/url-shortener/internal/app"
	"github.com/MihaiMusteata/url-shortener/internal/config"
)

func main() {
	appConf := config.MustLoadConfig()

	a := app.Must(app.New(*appConf))

	a.Logger.Infof("Starting server on %s", appConf.ServerAddress)
	if err := a.Run(); err != nil && !errors.Is(err, context.Canceled) {
		panic(err)
	}
}
