package cache

import (
	"bytes"
	"context"
	"errors"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type MemoryProvider struct {
	cache *lru.Cache[string, item]
	now   func() time.Time
}

type item struct {
	value     []byte
	expiresAt time.Time
}

const defaultMemoryCacheSize = 1_000

func NewMemoryProvider(size int) (*MemoryProvider, error) {
	if size <= 0 {
		size = defaultMemoryCacheSize
	}
	c, err := lru.New[string, item](size)
	if err != nil {
		return nil, err
	}
	return &MemoryProvider{cache: c, now: time.Now}, nil
}

func (m *MemoryProvider) Get(_ context.Context, key string) ([]byte, error) {
	cached, exists := m.cache.Get(key)
	if !exists {
		return nil, ErrNotFound
	}

	if m.now().After(cached.expiresAt) {
		m.cache.Remove(key)
		return nil, ErrNotFound
	}

	return bytes.Clone(cached.value), nil
}

func (m *MemoryProvider) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.cache.Add(key, item{
		value:     bytes.Clone(value),
		expiresAt: m.now().Add(ttl),
	})
	return nil
}

func (m *MemoryProvider) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.cache.Remove(key)
	}
	return nil
}

func (m *MemoryProvider) Close() error {
	m.cache.Purge()
	return nil
}

var ErrNotFound = errors.New("key not found")
