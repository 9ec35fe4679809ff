package db

import "github.com/gitshopapp/boxshop/internal/models"

type Product = models.Product
type InventoryItem = models.InventoryItem
