package catalog

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortField string

const (
	SortNone          SortField = "none"
	SortName          SortField = "name"
	SortPrice         SortField = "price"
	SortQuantity      SortField = "quantity"
	SortCardboardType SortField = "cardboard_type"
	SortBrand         SortField = "brand"
	SortCategory      SortField = "category"
	SortAvailability  SortField = "availability"
	SortDimensions    SortField = "dimensions"
	SortColors        SortField = "colors"
)

var sortFields = []SortField{
	SortNone, SortName, SortPrice, SortQuantity, SortCardboardType,
	SortBrand, SortCategory, SortAvailability, SortDimensions, SortColors,
}

// ParseSortField maps a request value to a SortField. Blank input means SortNone.
func ParseSortField(value string) (SortField, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return SortNone, true
	}
	for _, f := range sortFields {
		if string(f) == value {
			return f, true
		}
	}
	return SortNone, false
}

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

func ParseDirection(value string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "asc":
		return Ascending, true
	case "desc":
		return Descending, true
	default:
		return Ascending, false
	}
}

type SortSpec struct {
	Field     SortField `json:"field"`
	Direction Direction `json:"direction"`
}

// Toggle implements the column-header rule: the active field flips direction,
// any other field becomes active in ascending order.
func (s SortSpec) Toggle(field SortField) SortSpec {
	if s.Field == field && field != SortNone && field != "" {
		if s.Direction == Descending {
			return SortSpec{Field: field, Direction: Ascending}
		}
		return SortSpec{Field: field, Direction: Descending}
	}
	return SortSpec{Field: field, Direction: Ascending}
}

func (s SortSpec) active() bool {
	return s.Field != "" && s.Field != SortNone
}

// Key extracts a sort key from a record, either as collated text or as a number.
type Key[T any] struct {
	text   func(T) string
	number func(T) float64
}

func TextKey[T any](fn func(T) string) Key[T] {
	return Key[T]{text: fn}
}

func NumberKey[T any](fn func(T) float64) Key[T] {
	return Key[T]{number: fn}
}

// Registry orders records of type T by registered sort fields.
type Registry[T any] struct {
	keys map[SortField]Key[T]
	tag  language.Tag
}

func NewRegistry[T any](keys map[SortField]Key[T]) *Registry[T] {
	return &Registry[T]{keys: keys, tag: language.Russian}
}

// Compare orders a and b under spec. Descending is the negated ascending result.
func (r *Registry[T]) Compare(a, b T, spec SortSpec) int {
	return r.compare(r.newCollator(), a, b, spec)
}

// Sort returns a stably sorted copy of items. Unknown fields and SortNone keep input order.
func (r *Registry[T]) Sort(items []T, spec SortSpec) []T {
	out := slices.Clone(items)
	if !spec.active() {
		return out
	}
	if _, ok := r.keys[spec.Field]; !ok {
		return out
	}

	col := r.newCollator()
	slices.SortStableFunc(out, func(a, b T) int {
		return r.compare(col, a, b, spec)
	})
	return out
}

func (r *Registry[T]) Supports(field SortField) bool {
	_, ok := r.keys[field]
	return ok
}

// newCollator is called per operation: a Collator is not safe for concurrent use.
func (r *Registry[T]) newCollator() *collate.Collator {
	return collate.New(r.tag)
}

func (r *Registry[T]) compare(col *collate.Collator, a, b T, spec SortSpec) int {
	if !spec.active() {
		return 0
	}
	key, ok := r.keys[spec.Field]
	if !ok {
		return 0
	}

	var result int
	switch {
	case key.number != nil:
		result = cmp.Compare(numeric(key.number(a)), numeric(key.number(b)))
	case key.text != nil:
		result = col.CompareString(key.text(a), key.text(b))
	}

	if spec.Direction == Descending {
		return -result
	}
	return result
}

func numeric(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ProductSorter orders catalog products.
var ProductSorter = NewRegistry(map[SortField]Key[Product]{
	SortName:          TextKey(func(p Product) string { return p.Name }),
	SortPrice:         NumberKey(func(p Product) float64 { return p.UnitPrice }),
	SortCardboardType: TextKey(func(p Product) string { return string(p.CardboardType) }),
	SortBrand:         TextKey(func(p Product) string { return p.Brand }),
	SortCategory:      TextKey(func(p Product) string { return string(p.Category) }),
	SortAvailability:  TextKey(func(p Product) string { return string(p.Availability) }),
	SortDimensions:    TextKey(func(p Product) string { return p.Dimensions.String() }),
	SortColors:        TextKey(func(p Product) string { return strings.Join(p.Colors, ", ") }),
})
