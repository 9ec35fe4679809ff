package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gitshopapp/boxshop/internal/cart"
	"github.com/gitshopapp/boxshop/internal/catalog"
)

type productLookup interface {
	Product(ctx context.Context, id string) (catalog.Product, error)
}

// CartService applies cart edits against current catalog data.
type CartService struct {
	products productLookup
}

func NewCartService(products productLookup) *CartService {
	return &CartService{products: products}
}

// Add puts quantity units of the product into c, merged with an existing line.
func (s *CartService) Add(ctx context.Context, c cart.Cart, productID string, quantity int) (cart.Cart, error) {
	if err := validateQuantity(quantity); err != nil {
		return c, err
	}

	p, err := s.products.Product(ctx, productID)
	if err != nil {
		return c, err
	}
	if existing, ok := c.Line(productID); ok {
		if err := validateQuantity(cart.MergedQuantity(existing.Quantity, quantity)); err != nil {
			return c, err
		}
	}

	return cart.AddLine(c, lineFromProduct(p, quantity)), nil
}

// Update replaces the quantity of an existing line.
func (s *CartService) Update(_ context.Context, c cart.Cart, productID string, quantity int) (cart.Cart, error) {
	if err := validateQuantity(quantity); err != nil {
		return c, err
	}

	updated, ok := cart.UpdateLine(c, productID, quantity)
	if !ok {
		return c, fmt.Errorf("%w: %s is not in the cart", ErrProductNotFound, productID)
	}
	return updated, nil
}

func (s *CartService) Remove(c cart.Cart, productID string) cart.Cart {
	return cart.RemoveLine(c, productID)
}

// Refresh reprices lines from the catalog and drops lines whose product is gone.
// Quantities are renormalised because the package size may have changed.
func (s *CartService) Refresh(ctx context.Context, c cart.Cart) (cart.Cart, error) {
	lines := make([]cart.Line, 0, len(c.Lines))
	for _, line := range c.Lines {
		p, err := s.products.Product(ctx, line.ProductID)
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return c, err
		}
		lines = append(lines, lineFromProduct(p, line.Quantity))
	}
	return cart.Cart{Lines: lines}, nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return UserError{Message: "Quantity must be a positive number"}
	}
	if quantity > cart.MaxLineQuantity {
		return UserError{Message: fmt.Sprintf("Quantity must not exceed %d units per line", cart.MaxLineQuantity)}
	}
	return nil
}

func lineFromProduct(p catalog.Product, quantity int) cart.Line {
	return cart.SetQuantity(cart.Line{
		ProductID:   p.ID,
		Name:        p.Name,
		Size:        p.Dimensions.String(),
		UnitPrice:   p.UnitPrice,
		ImageURL:    p.ImageURL,
		PackageSize: p.PackageSize,
	}, quantity)
}
