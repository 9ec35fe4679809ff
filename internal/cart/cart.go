// Package cart implements cart line arithmetic: package-size normalisation and tiered totals.
package cart

import (
	"slices"

	"github.com/gitshopapp/boxshop/internal/catalog"
)

// MaxLineQuantity is the largest unit count a single cart line may hold.
const MaxLineQuantity = 10_000_000

type Line struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Size        string  `json:"size,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	ImageURL    string  `json:"image_url,omitempty"`
	PackageSize int     `json:"package_size,omitempty"`
}

type Cart struct {
	Lines []Line `json:"lines"`
}

// NormalizeQuantity rounds requested up to a multiple of packageSize and never returns
// less than one package. A non-positive packageSize means the default of 100.
// Requests above MaxLineQuantity are clamped to it before rounding.
func NormalizeQuantity(requested, packageSize int) int {
	if packageSize <= 0 {
		packageSize = catalog.DefaultPackageSize
	}
	requested = min(requested, MaxLineQuantity)

	quantity := requested
	if rem := requested % packageSize; rem != 0 {
		quantity = requested + (packageSize - rem)
	}
	if quantity < packageSize {
		return packageSize
	}
	return quantity
}

func (l Line) EffectivePackageSize() int {
	if l.PackageSize > 0 {
		return l.PackageSize
	}
	return catalog.DefaultPackageSize
}

// SetQuantity returns a copy of line with the normalised quantity.
func SetQuantity(line Line, requested int) Line {
	line.Quantity = NormalizeQuantity(requested, line.PackageSize)
	return line
}

func (l Line) EffectiveUnitPrice() float64 {
	return catalog.EffectiveUnitPrice(l.UnitPrice, l.Quantity)
}

func (l Line) Total() float64 {
	return catalog.LineTotal(l.UnitPrice, l.Quantity)
}

// AddLine merges line into c by product, summing quantities.
func AddLine(c Cart, line Line) Cart {
	lines := slices.Clone(c.Lines)
	for i, existing := range lines {
		if existing.ProductID == line.ProductID {
			lines[i] = SetQuantity(existing, MergedQuantity(existing.Quantity, line.Quantity))
			return Cart{Lines: lines}
		}
	}
	return Cart{Lines: append(lines, SetQuantity(line, line.Quantity))}
}

// MergedQuantity sums two line quantities, saturating at MaxLineQuantity+1 so callers
// can detect an over-limit merge without int overflow.
func MergedQuantity(existing, added int) int {
	existing = max(existing, 0)
	if existing > MaxLineQuantity || added > MaxLineQuantity-existing {
		return MaxLineQuantity + 1
	}
	return existing + added
}

// UpdateLine sets the quantity of the product's line. Missing products leave the cart unchanged.
func UpdateLine(c Cart, productID string, requested int) (Cart, bool) {
	lines := slices.Clone(c.Lines)
	for i, existing := range lines {
		if existing.ProductID == productID {
			lines[i] = SetQuantity(existing, requested)
			return Cart{Lines: lines}, true
		}
	}
	return Cart{Lines: lines}, false
}

func RemoveLine(c Cart, productID string) Cart {
	lines := make([]Line, 0, len(c.Lines))
	for _, l := range c.Lines {
		if l.ProductID != productID {
			lines = append(lines, l)
		}
	}
	return Cart{Lines: lines}
}

func (c Cart) Line(productID string) (Line, bool) {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

func (c Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Total()
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c Cart) Units() int {
	var units int
	for _, l := range c.Lines {
		units += l.Quantity
	}
	return units
}
