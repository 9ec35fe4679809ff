//go:build integration

package db

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) (*ProductStore, *InventoryStore) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("boxshop"),
		postgres.WithUsername("boxshop"),
		postgres.WithPassword("boxshop"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to build connection string: %v", err)
	}

	pool, err := Connect(ctx, dsn, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := Migrate(pool); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	// A second run must be a no-op.
	if err := Migrate(pool); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	return NewProductStore(pool), NewInventoryStore(pool)
}

func TestProductStore_Postgres(t *testing.T) {
	products, inventory := setupPostgres(t)
	ctx := context.Background()

	first := &Product{Name: "Первая", Size: "100x100x100", Price: 12.5, Colors: []string{"бурый", "белый"}, Category: "самосборные"}
	second := &Product{Name: "Вторая", Size: "200x200x200", Price: 30}
	if err := products.CreateProduct(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := products.CreateProduct(ctx, second); err != nil {
		t.Fatalf("create second: %v", err)
	}

	list, err := products.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID {
		t.Fatalf("expected insertion order, got %+v", list)
	}
	if len(list[0].Colors) != 2 || list[0].Colors[1] != "белый" {
		t.Fatalf("colors not round-tripped: %v", list[0].Colors)
	}
	if list[1].Colors == nil {
		t.Fatalf("expected empty colors slice, got nil")
	}

	first.Price = 14
	if err := products.UpdateProduct(ctx, first); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := products.GetProduct(ctx, first.ID)
	if err != nil || got.Price != 14 {
		t.Fatalf("unexpected product after update: %+v %v", got, err)
	}

	if err := products.DeleteProduct(ctx, second.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := products.GetProduct(ctx, second.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	item := &InventoryItem{Name: "Лист", Size: "1200x800x5", Quantity: 40}
	if err := inventory.CreateInventoryItem(ctx, item); err != nil {
		t.Fatalf("create inventory: %v", err)
	}
	items, err := inventory.ListInventory(ctx)
	if err != nil || len(items) != 1 || items[0].Quantity != 40 {
		t.Fatalf("unexpected inventory: %+v %v", items, err)
	}
}
