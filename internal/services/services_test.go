package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gitshopapp/boxshop/internal/db"
)

// countingSource wraps a memory store and counts source loads.
type countingSource struct {
	*db.MemoryStore
	loads atomic.Int32
	err   error
}

func (s *countingSource) ListProducts(ctx context.Context) ([]db.Product, error) {
	s.loads.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.MemoryStore.ListProducts(ctx)
}

// blockingSource holds its first ListProducts call after reading the store
// until release is closed. It fails calls whose context is already done.
type blockingSource struct {
	*db.MemoryStore
	loads   atomic.Int32
	listed  chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingSource(store *db.MemoryStore) *blockingSource {
	return &blockingSource{
		MemoryStore: store,
		listed:      make(chan struct{}),
		release:     make(chan struct{}),
	}
}

func (s *blockingSource) ListProducts(ctx context.Context) ([]db.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.loads.Add(1)
	products, err := s.MemoryStore.ListProducts(ctx)
	s.once.Do(func() {
		close(s.listed)
		<-s.release
	})
	return products, err
}

func newBox(name, size string, price float64) *db.Product {
	return &db.Product{
		Name:          name,
		Size:          size,
		Price:         price,
		Colors:        []string{"бурый"},
		CardboardType: "3-слойный",
		Brand:         "Гофра",
		Category:      "самосборные",
		Availability:  "в наличии",
	}
}

func seededStore(products ...*db.Product) *db.MemoryStore {
	store := db.NewMemoryStore()
	for _, p := range products {
		_ = store.CreateProduct(context.Background(), p)
	}
	return store
}
