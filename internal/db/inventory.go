package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InventoryStore persists warehouse stock lines in PostgreSQL.
type InventoryStore struct {
	pool *pgxpool.Pool
}

func NewInventoryStore(pool *pgxpool.Pool) *InventoryStore {
	return &InventoryStore{pool: pool}
}

func (s *InventoryStore) ListInventory(ctx context.Context) ([]InventoryItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, size, cardboard_type, brand, color, quantity, price, updated_at
		FROM inventory_items
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	items := []InventoryItem{}
	for rows.Next() {
		var item InventoryItem
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Size,
			&item.CardboardType,
			&item.Brand,
			&item.Color,
			&item.Quantity,
			&item.Price,
			&item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

func (s *InventoryStore) CreateInventoryItem(ctx context.Context, item *InventoryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.UpdatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO inventory_items (id, name, size, cardboard_type, brand, color, quantity, price, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		item.ID, item.Name, item.Size, item.CardboardType, item.Brand, item.Color,
		item.Quantity, item.Price, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inventory item: %w", err)
	}
	return nil
}

func (s *InventoryStore) UpdateInventoryItem(ctx context.Context, item *InventoryItem) error {
	item.UpdatedAt = time.Now().UTC()

	tag, err := s.pool.Exec(ctx, `
		UPDATE inventory_items
		SET name = $2, size = $3, cardboard_type = $4, brand = $5, color = $6, quantity = $7, price = $8, updated_at = $9
		WHERE id = $1`,
		item.ID, item.Name, item.Size, item.CardboardType, item.Brand, item.Color,
		item.Quantity, item.Price, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *InventoryStore) DeleteInventoryItem(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
