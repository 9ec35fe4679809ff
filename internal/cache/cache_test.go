package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestNewProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider string
		wantErr  bool
	}{
		{name: "default provider", provider: "", wantErr: false},
		{name: "memory provider", provider: "memory", wantErr: false},
		{name: "unsupported provider", provider: "memcached", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider, err := NewProvider(Config{Provider: tt.provider})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if err := provider.Close(); err != nil {
				t.Fatalf("expected close without error, got %v", err)
			}
		})
	}
}

func TestMemoryProvider_Expiry(t *testing.T) {
	t.Parallel()

	provider, err := NewMemoryProvider(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	provider.now = func() time.Time { return now }

	ctx := context.Background()
	if err := provider.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := provider.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("expected hit, got %q %v", got, err)
	}
	got[0] = 'x'
	if again, _ := provider.Get(ctx, "k"); string(again) != "v" {
		t.Fatalf("cached value shared with caller")
	}

	now = now.Add(2 * time.Minute)
	if _, err := provider.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestMemoryProvider_Delete(t *testing.T) {
	t.Parallel()

	provider, _ := NewMemoryProvider(0)
	ctx := context.Background()
	_ = provider.Set(ctx, "a", []byte("1"), time.Minute)
	_ = provider.Set(ctx, "b", []byte("2"), time.Minute)

	if err := provider.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := provider.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a deleted, got %v", err)
	}
}

func TestRedisProvider(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	provider, err := NewRedisProvider("redis://" + mr.Addr() + "/0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer provider.Close() //nolint:errcheck

	ctx := context.Background()
	if _, err := provider.Get(ctx, CatalogSnapshotKey()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected miss, got %v", err)
	}

	if err := provider.Set(ctx, CatalogSnapshotKey(), []byte(`[]`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("boxshop:cache:catalog:snapshot") {
		t.Fatalf("expected prefixed key in redis")
	}
	got, err := provider.Get(ctx, CatalogSnapshotKey())
	if err != nil || string(got) != "[]" {
		t.Fatalf("expected hit, got %q %v", got, err)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := provider.Get(ctx, CatalogSnapshotKey()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ttl expiry, got %v", err)
	}

	_ = provider.Set(ctx, "x", []byte("1"), time.Minute)
	if err := provider.Delete(ctx, "x"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("boxshop:cache:x") {
		t.Fatalf("expected key removed")
	}
}

func TestNewRedisProvider_InvalidURL(t *testing.T) {
	t.Parallel()

	if _, err := NewRedisProvider("://bad"); err == nil {
		t.Fatalf("expected error for invalid connection string")
	}
}
