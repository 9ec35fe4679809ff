package catalog

// Package catalog provides the storefront's catalog query engine.

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultPackageSize is the orderable multiple used when a product does not define one.
const DefaultPackageSize = 100

type CardboardType string

const (
	CardboardMicro      CardboardType = "микрогофрокартон"
	CardboardThreeLayer CardboardType = "3-слойный"
	CardboardFiveLayer  CardboardType = "5-слойный"
)

type Category string

const (
	CategorySelfAssembly Category = "самосборные"
	CategoryFourFlap     Category = "четырехклапанные"
)

type Availability string

const (
	AvailabilityInStock Availability = "в наличии"
	AvailabilityOnOrder Availability = "под заказ"
)

var (
	cardboardTypes = []CardboardType{CardboardMicro, CardboardThreeLayer, CardboardFiveLayer}
	categories     = []Category{CategorySelfAssembly, CategoryFourFlap}
	availabilities = []Availability{AvailabilityInStock, AvailabilityOnOrder}
)

func (t CardboardType) Valid() bool {
	for _, known := range cardboardTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (a Availability) Valid() bool {
	for _, known := range availabilities {
		if a == known {
			return true
		}
	}
	return false
}

var ErrMalformedSize = errors.New("malformed size")

// Dimensions holds a box size in millimetres.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// String encodes the dimensions back into the LxWxH form used by the data source.
func (d Dimensions) String() string {
	return formatDimension(d.Length) + "x" + formatDimension(d.Width) + "x" + formatDimension(d.Height)
}

func formatDimension(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var sizeSeparators = strings.NewReplacer("х", "x", "Х", "x", "X", "x", "×", "x", "*", "x")

// ParseDimensions parses an "LxWxH" size string. Anything other than exactly three
// finite non-negative numbers is rejected with ErrMalformedSize.
func ParseDimensions(size string) (Dimensions, error) {
	normalized := sizeSeparators.Replace(strings.TrimSpace(size))
	parts := strings.Split(normalized, "x")
	if len(parts) != 3 {
		return Dimensions{}, fmt.Errorf("%w: %q", ErrMalformedSize, size)
	}

	values := make([]float64, 3)
	for i, part := range parts {
		token := strings.ReplaceAll(strings.TrimSpace(part), ",", ".")
		v, err := strconv.ParseFloat(token, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return Dimensions{}, fmt.Errorf("%w: %q", ErrMalformedSize, size)
		}
		values[i] = v
	}

	return Dimensions{Length: values[0], Width: values[1], Height: values[2]}, nil
}

// Product is an ingested catalog record. Products are treated as immutable snapshots.
type Product struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Dimensions    Dimensions    `json:"dimensions"`
	UnitPrice     float64       `json:"unit_price"`
	Colors        []string      `json:"colors"`
	CardboardType CardboardType `json:"cardboard_type"`
	Brand         string        `json:"brand"`
	Category      Category      `json:"category"`
	Availability  Availability  `json:"availability"`
	ImageURL      string        `json:"image_url,omitempty"`
	PackageSize   int           `json:"package_size,omitempty"`
}

func (p Product) EffectivePackageSize() int {
	if p.PackageSize > 0 {
		return p.PackageSize
	}
	return DefaultPackageSize
}

// Record is a product as delivered by a data source, before size parsing.
type Record struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name" validate:"required"`
	Size          string   `json:"size" yaml:"size" validate:"required"`
	Price         float64  `json:"price" yaml:"price" validate:"gte=0"`
	Colors        []string `json:"colors" yaml:"colors" validate:"dive,required"`
	CardboardType string   `json:"cardboard_type" yaml:"cardboard_type"`
	Brand         string   `json:"brand" yaml:"brand"`
	Category      string   `json:"category" yaml:"category"`
	Availability  string   `json:"availability" yaml:"availability"`
	ImageURL      string   `json:"image_url" yaml:"image_url" validate:"omitempty,url"`
	PackageSize   int      `json:"package_size" yaml:"package_size" validate:"gte=0"`
}

// FromRecord parses a raw record into a Product. The size string is parsed exactly once here.
func FromRecord(r Record) (Product, error) {
	dims, err := ParseDimensions(r.Size)
	if err != nil {
		return Product{}, fmt.Errorf("product %s: %w", r.ID, err)
	}

	colors := make([]string, 0, len(r.Colors))
	for _, c := range r.Colors {
		if c = strings.TrimSpace(c); c != "" {
			colors = append(colors, c)
		}
	}

	return Product{
		ID:            r.ID,
		Name:          strings.TrimSpace(r.Name),
		Dimensions:    dims,
		UnitPrice:     r.Price,
		Colors:        colors,
		CardboardType: CardboardType(strings.TrimSpace(r.CardboardType)),
		Brand:         strings.TrimSpace(r.Brand),
		Category:      Category(strings.TrimSpace(r.Category)),
		Availability:  Availability(strings.TrimSpace(r.Availability)),
		ImageURL:      strings.TrimSpace(r.ImageURL),
		PackageSize:   r.PackageSize,
	}, nil
}
