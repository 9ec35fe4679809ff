package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is a warehouse stock line managed from the admin panel.
type InventoryItem struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Size          string    `json:"size"`
	CardboardType string    `json:"cardboard_type"`
	Brand         string    `json:"brand"`
	Color         string    `json:"color"`
	Quantity      int       `json:"quantity"`
	Price         float64   `json:"price"`
	UpdatedAt     time.Time `json:"updated_at"`
}
