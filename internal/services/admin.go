package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
	"github.com/google/uuid"

	"github.com/gitshopapp/boxshop/internal/catalog"
	"github.com/gitshopapp/boxshop/internal/db"
	"github.com/gitshopapp/boxshop/internal/logging"
	"github.com/gitshopapp/boxshop/internal/observability"
)

type ProductStore interface {
	ListProducts(ctx context.Context) ([]db.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*db.Product, error)
	CreateProduct(ctx context.Context, p *db.Product) error
	UpdateProduct(ctx context.Context, p *db.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type InventoryStore interface {
	ListInventory(ctx context.Context) ([]db.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, item *db.InventoryItem) error
	UpdateInventoryItem(ctx context.Context, item *db.InventoryItem) error
	DeleteInventoryItem(ctx context.Context, id uuid.UUID) error
}

type catalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

// InventorySorter orders warehouse stock lines in the admin table.
var InventorySorter = catalog.NewRegistry(map[catalog.SortField]catalog.Key[db.InventoryItem]{
	catalog.SortName:          catalog.TextKey(func(i db.InventoryItem) string { return i.Name }),
	catalog.SortDimensions:    catalog.TextKey(func(i db.InventoryItem) string { return i.Size }),
	catalog.SortCardboardType: catalog.TextKey(func(i db.InventoryItem) string { return i.CardboardType }),
	catalog.SortBrand:         catalog.TextKey(func(i db.InventoryItem) string { return i.Brand }),
	catalog.SortColors:        catalog.TextKey(func(i db.InventoryItem) string { return i.Color }),
	catalog.SortQuantity:      catalog.NumberKey(func(i db.InventoryItem) float64 { return float64(i.Quantity) }),
	catalog.SortPrice:         catalog.NumberKey(func(i db.InventoryItem) float64 { return i.Price }),
})

type InventoryQuery struct {
	Query string
	Sort  catalog.SortSpec
}

// AdminService manages products and warehouse stock for the admin API.
type AdminService struct {
	products  ProductStore
	inventory InventoryStore
	validator *catalog.Validator
	catalog   catalogInvalidator
	logger    *slog.Logger
}

func NewAdminService(
	products ProductStore,
	inventory InventoryStore,
	validator *catalog.Validator,
	catalogCache catalogInvalidator,
	logger *slog.Logger,
) *AdminService {
	if validator == nil {
		validator = catalog.NewValidator()
	}
	return &AdminService{
		products:  products,
		inventory: inventory,
		validator: validator,
		catalog:   catalogCache,
		logger:    logger,
	}
}

func (s *AdminService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

func (s *AdminService) ListProducts(ctx context.Context) ([]db.Product, error) {
	return s.products.ListProducts(ctx)
}

func (s *AdminService) GetProduct(ctx context.Context, id uuid.UUID) (*db.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *AdminService) CreateProduct(ctx context.Context, input catalog.Record) (*db.Product, error) {
	if err := s.validator.ValidateRecord(&input); err != nil {
		s.recordMutation(ctx, "product", "create", "invalid_input")
		return nil, UserError{Message: err.Error()}
	}

	p := productFromRecord(input)
	if err := s.products.CreateProduct(ctx, &p); err != nil {
		s.recordMutation(ctx, "product", "create", "store_failed")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.afterCatalogChange(ctx)
	s.recordMutation(ctx, "product", "create", "")
	s.loggerFromContext(ctx).Info("product created", "product_id", p.ID, "name", p.Name)
	return &p, nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, id uuid.UUID, input catalog.Record) (*db.Product, error) {
	if err := s.validator.ValidateRecord(&input); err != nil {
		s.recordMutation(ctx, "product", "update", "invalid_input")
		return nil, UserError{Message: err.Error()}
	}

	p := productFromRecord(input)
	p.ID = id
	if err := s.products.UpdateProduct(ctx, &p); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		s.recordMutation(ctx, "product", "update", "store_failed")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.afterCatalogChange(ctx)
	s.recordMutation(ctx, "product", "update", "")
	s.loggerFromContext(ctx).Info("product updated", "product_id", p.ID)
	return &p, nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.afterCatalogChange(ctx)
	s.recordMutation(ctx, "product", "delete", "")
	s.loggerFromContext(ctx).Info("product deleted", "product_id", id)
	return nil
}

// ListInventory filters stock lines by a case-insensitive match on name or brand
// and sorts them with InventorySorter.
func (s *AdminService) ListInventory(ctx context.Context, q InventoryQuery) ([]db.InventoryItem, error) {
	items, err := s.inventory.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(q.Query))
	if needle != "" {
		filtered := make([]db.InventoryItem, 0, len(items))
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.Name), needle) ||
				strings.Contains(strings.ToLower(item.Brand), needle) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	return InventorySorter.Sort(items, q.Sort), nil
}

func (s *AdminService) CreateInventoryItem(ctx context.Context, input catalog.InventoryRecord) (*db.InventoryItem, error) {
	if err := s.validator.ValidateInventory(&input); err != nil {
		s.recordMutation(ctx, "inventory", "create", "invalid_input")
		return nil, UserError{Message: err.Error()}
	}

	item := inventoryFromRecord(input)
	if err := s.inventory.CreateInventoryItem(ctx, &item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	s.recordMutation(ctx, "inventory", "create", "")
	return &item, nil
}

func (s *AdminService) UpdateInventoryItem(ctx context.Context, id uuid.UUID, input catalog.InventoryRecord) (*db.InventoryItem, error) {
	if err := s.validator.ValidateInventory(&input); err != nil {
		s.recordMutation(ctx, "inventory", "update", "invalid_input")
		return nil, UserError{Message: err.Error()}
	}

	item := inventoryFromRecord(input)
	item.ID = id
	if err := s.inventory.UpdateInventoryItem(ctx, &item); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}

	s.recordMutation(ctx, "inventory", "update", "")
	return &item, nil
}

func (s *AdminService) DeleteInventoryItem(ctx context.Context, id uuid.UUID) error {
	if err := s.inventory.DeleteInventoryItem(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrInventoryItemNotFound
		}
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}

	s.recordMutation(ctx, "inventory", "delete", "")
	return nil
}

func (s *AdminService) afterCatalogChange(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Invalidate(ctx); err != nil {
		s.loggerFromContext(ctx).Warn("failed to invalidate catalog cache", "error", err)
	}
}

func (s *AdminService) recordMutation(ctx context.Context, entity, action, failure string) {
	meter := observability.MeterFromContext(ctx)
	if failure != "" {
		meter.Count("admin.mutation.failed", 1, sentry.WithAttributes(
			attribute.String("entity", entity),
			attribute.String("action", action),
			attribute.String("reason", failure),
		))
		return
	}
	meter.Count("admin.mutation.processed", 1, sentry.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("action", action),
	))
}

func productFromRecord(r catalog.Record) db.Product {
	colors := make([]string, 0, len(r.Colors))
	for _, c := range r.Colors {
		if c = strings.TrimSpace(c); c != "" {
			colors = append(colors, c)
		}
	}
	return db.Product{
		Name:          strings.TrimSpace(r.Name),
		Size:          strings.TrimSpace(r.Size),
		Price:         r.Price,
		Colors:        colors,
		CardboardType: strings.TrimSpace(r.CardboardType),
		Brand:         strings.TrimSpace(r.Brand),
		Category:      strings.TrimSpace(r.Category),
		Availability:  strings.TrimSpace(r.Availability),
		ImageURL:      strings.TrimSpace(r.ImageURL),
		PackageSize:   r.PackageSize,
	}
}

func inventoryFromRecord(r catalog.InventoryRecord) db.InventoryItem {
	return db.InventoryItem{
		Name:          strings.TrimSpace(r.Name),
		Size:          strings.TrimSpace(r.Size),
		CardboardType: strings.TrimSpace(r.CardboardType),
		Brand:         strings.TrimSpace(r.Brand),
		Color:         strings.TrimSpace(r.Color),
		Quantity:      r.Quantity,
		Price:         r.Price,
	}
}
