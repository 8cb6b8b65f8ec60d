package config

import (
	"flag"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type CacheBackend string

const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendRedis  CacheBackend = "redis"
)

type Config struct {
	// Адрес на котором запустится сервер
	ServerAddress string `env:"SERVER_ADDRESS"`
	// Базовый адрес результирующей короткой ссылки
	BaseURL *url.URL `env:"BASE_URL"`
	// Путь к файлу базы данных sqlite
	DatabasePath string `env:"DATABASE_PATH"`
	// Бэкенд кеша
	CacheBackend CacheBackend `env:"CACHE" envDefault:"memory"` // через флаги не настраиваю, незачем
	// Адрес redis (используется только при CACHE=redis)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	// Секрет для подписи JWT токенов доступа
	JWTSecret string `env:"JWT_SECRET"`
	Logger    *logrus.Logger
}

func LoadConfig() (*Config, error) {
	var flagsConfig, envConfig Config
	logger := initLogger()

	// .env может отсутствовать (например в проде), это не ошибка.
	_ = godotenv.Load()

	if err := env.Parse(&envConfig); err != nil {
		return nil, errors.Wrapf(err, "parse ENV config error")
	}

	loadsFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	conf.Logger = logger
	return conf, nil
}

// MustLoadConfig вызывает панику если конфиг не загрузился.
func MustLoadConfig() *Config {
	conf, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return conf
}

// loadsFlags парсит флаги командной строки.
func loadsFlags(flagsConfig *Config) {
	flag.StringVar(&flagsConfig.ServerAddress, "a", "localhost:8080", "Адрес сервера")
	flag.StringVar(&flagsConfig.DatabasePath, "d", "shortener.db", "Путь к файлу базы данных")

	bDesc := "Базовый адрес результирующей короткой ссылки (по умолчанию Scheme://Host запущенного сервера)"
	flag.Func("b", bDesc, func(rawURL string) error {
		parsedURL, err := url.ParseRequestURI(rawURL)
		if err != nil {
			return errors.Wrap(err, "failed to parse base url")
		}

		// создаем новый инстанс, отсекая тем самым Path и Query если они заданы в базовом урле.
		flagsConfig.BaseURL = &url.URL{
			Scheme: parsedURL.Scheme,
			Host:   parsedURL.Host,
		}
		return nil
	})

	flag.Parse()
}

// mergeConfig сливает структуры для env и флагов.
func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		ServerAddress: defaultIfBlank[string](envConfig.ServerAddress, flagsConfig.ServerAddress),
		BaseURL:       defaultIfBlank[*url.URL](envConfig.BaseURL, flagsConfig.BaseURL),
		DatabasePath:  defaultIfBlank[string](envConfig.DatabasePath, flagsConfig.DatabasePath),
		CacheBackend:  envConfig.CacheBackend,
		RedisAddr:     envConfig.RedisAddr,
		JWTSecret:     defaultIfBlank[string](envConfig.JWTSecret, flagsConfig.JWTSecret),
	}
}

func defaultIfBlank[T any](value T, defaultValue T) T {
	if v, ok := any(value).(string); ok && v == "" {
		return defaultValue
	}
	if v, ok := any(value).(*url.URL); ok && v == nil {
		return defaultValue
	}
	return value
}
