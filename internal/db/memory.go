package db

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gitshopapp/boxshop/internal/catalog"
)

// seedNamespace derives stable UUIDs for seed records that carry non-UUID ids.
var seedNamespace = uuid.MustParse("6f1c2d7e-3b9a-4c55-9d0e-7a8b1c2d3e4f")

// MemoryStore keeps products and inventory in process memory. It backs development
// setups and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	products  []Product
	inventory []InventoryItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreFromSeed loads a parsed seed file. Records keep file order.
func NewMemoryStoreFromSeed(seed *catalog.SeedFile) *MemoryStore {
	store := NewMemoryStore()
	if seed == nil {
		return store
	}

	now := time.Now().UTC()
	for _, r := range seed.Products {
		store.products = append(store.products, Product{
			ID:            seedID(r.ID),
			Name:          r.Name,
			Size:          r.Size,
			Price:         r.Price,
			Colors:        slices.Clone(r.Colors),
			CardboardType: r.CardboardType,
			Brand:         r.Brand,
			Category:      r.Category,
			Availability:  r.Availability,
			ImageURL:      r.ImageURL,
			PackageSize:   r.PackageSize,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	for _, r := range seed.Inventory {
		store.inventory = append(store.inventory, InventoryItem{
			ID:            seedID(r.ID),
			Name:          r.Name,
			Size:          r.Size,
			CardboardType: r.CardboardType,
			Brand:         r.Brand,
			Color:         r.Color,
			Quantity:      r.Quantity,
			Price:         r.Price,
			UpdatedAt:     now,
		})
	}
	return store
}

func seedID(raw string) uuid.UUID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.New()
	}
	if id, err := uuid.Parse(raw); err == nil {
		return id
	}
	return uuid.NewSHA1(seedNamespace, []byte(raw))
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

func (s *MemoryStore) ListProducts(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, cloneProduct(p))
	}
	return out, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id uuid.UUID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			cloned := cloneProduct(p)
			return &cloned, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateProduct(_ context.Context, p *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.products = append(s.products, cloneProduct(*p))
	return nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, p *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.products {
		if existing.ID == p.ID {
			p.CreatedAt = existing.CreatedAt
			p.UpdatedAt = time.Now().UTC()
			s.products[i] = cloneProduct(*p)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.products {
		if existing.ID == id {
			s.products = slices.Delete(s.products, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) ListInventory(_ context.Context) ([]InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.inventory), nil
}

func (s *MemoryStore) CreateInventoryItem(_ context.Context, item *InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.UpdatedAt = time.Now().UTC()
	s.inventory = append(s.inventory, *item)
	return nil
}

func (s *MemoryStore) UpdateInventoryItem(_ context.Context, item *InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.inventory {
		if existing.ID == item.ID {
			item.UpdatedAt = time.Now().UTC()
			s.inventory[i] = *item
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteInventoryItem(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.inventory {
		if existing.ID == id {
			s.inventory = slices.Delete(s.inventory, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}

func cloneProduct(p Product) Product {
	p.Colors = slices.Clone(p.Colors)
	return p
}
