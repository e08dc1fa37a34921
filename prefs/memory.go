package prefs

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// NewMemoryStore returns a Store that lives as long as the process.
func NewMemoryStore() Store {
	return &memoryStore{
		cache: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

type memoryStore struct {
	cache *cache.Cache
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	result, ok := m.cache.Get(key)
	if !ok {
		return "", false, nil
	}
	value, _ := result.(string)
	return value, true, nil
}

func (m *memoryStore) Set(ctx context.Context, key string, value string) error {
	m.cache.Set(key, value, cache.NoExpiration)
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}
