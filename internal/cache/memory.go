package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = 5 * time.Minute

// MemoryStore реализация Store поверх go-cache для процесса-одиночки.
type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		// дефолтное TTL не используем, каждая запись приходит со своим
		cache: gocache.New(gocache.NoExpiration, memoryCleanupInterval),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, false
	}
	data, ok := v.([]byte)
	return data, ok
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.cache.Set(key, value, ttl)
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
