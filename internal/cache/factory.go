package cache

import (
	"context"
	"fmt"

	"github.com/MihaiMusteata/url-shortener/internal/config"
)

// Factory выбирает бэкенд кеша по конфигу.
func Factory(ctx context.Context, conf *config.Config) (Store, error) {
	switch conf.CacheBackend {
	case config.CacheBackendMemory:
		return NewMemoryStore(), nil
	case config.CacheBackendRedis:
		store, err := NewRedisStore(ctx, conf.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("create redis cache: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", conf.CacheBackend)
	}
}
