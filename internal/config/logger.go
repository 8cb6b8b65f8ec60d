package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// initLogger настраивает логгер по окружению: в release JSON и Info,
// иначе текстовый вывод и Debug. LOG_LEVEL переопределяет уровень.
func initLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if os.Getenv("GIN_MODE") == "release" {
		logger.SetFormatter(new(logrus.JSONFormatter))
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetFormatter(new(logrus.TextFormatter))
		logger.SetLevel(logrus.DebugLevel)
	}

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if level, parseErr := logrus.ParseLevel(raw); parseErr == nil {
			logger.SetLevel(level)
		}
	}

	return logger
}
