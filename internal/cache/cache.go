package cache

import (
	"context"
	"time"
)

// Store порт кеша. Хранит сырые байты с TTL на запись; сериализация лежит на вызывающей стороне.
// Кеш всегда передается явной зависимостью, никаких синглтонов.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
	Close() error
}
