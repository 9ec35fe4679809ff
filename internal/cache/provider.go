package cache

// Package cache provides caching for catalog snapshots.

import (
	"context"
	"fmt"
	"time"
)

// Provider stores opaque byte payloads with a TTL.
type Provider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

type Config struct {
	Provider              string
	RedisConnectionString string
	MemorySize            int
}

func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemoryProvider(cfg.MemorySize)
	case "redis":
		return NewRedisProvider(cfg.RedisConnectionString)
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", cfg.Provider)
	}
}

const catalogSnapshotKey = "catalog:snapshot"

// CatalogSnapshotKey is the key of the serialized product list.
func CatalogSnapshotKey() string {
	return catalogSnapshotKey
}
