package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a stored catalog record. Size keeps the source "LxWxH" encoding.
type Product struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Size          string    `json:"size"`
	Price         float64   `json:"price"`
	Colors        []string  `json:"colors"`
	CardboardType string    `json:"cardboard_type"`
	Brand         string    `json:"brand"`
	Category      string    `json:"category"`
	Availability  string    `json:"availability"`
	ImageURL      string    `json:"image_url"`
	PackageSize   int       `json:"package_size"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
