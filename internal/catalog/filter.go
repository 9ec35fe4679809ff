package catalog

import "strings"

// Range is an inclusive numeric bound. A nil side is unbounded.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

func (r Range) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// FilterSpec is the complete set of active catalog filter constraints.
// Empty multi-select sets impose no restriction.
type FilterSpec struct {
	Query          string   `json:"query,omitempty"`
	Length         Range    `json:"length"`
	Width          Range    `json:"width"`
	Height         Range    `json:"height"`
	Price          Range    `json:"price"`
	CardboardTypes []string `json:"cardboard_types,omitempty"`
	Brands         []string `json:"brands,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	Colors         []string `json:"colors,omitempty"`
}

func (f FilterSpec) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" &&
		f.Length.IsZero() && f.Width.IsZero() && f.Height.IsZero() && f.Price.IsZero() &&
		len(f.CardboardTypes) == 0 && len(f.Brands) == 0 && len(f.Categories) == 0 && len(f.Colors) == 0
}

// Matches reports whether p satisfies every active condition of spec.
func Matches(p Product, spec FilterSpec) bool {
	if !matchesQuery(p, spec.Query) {
		return false
	}

	if !spec.Length.Contains(p.Dimensions.Length) ||
		!spec.Width.Contains(p.Dimensions.Width) ||
		!spec.Height.Contains(p.Dimensions.Height) ||
		!spec.Price.Contains(p.UnitPrice) {
		return false
	}

	if !memberOf(string(p.CardboardType), spec.CardboardTypes) ||
		!memberOf(p.Brand, spec.Brands) ||
		!memberOf(string(p.Category), spec.Categories) {
		return false
	}

	if len(spec.Colors) == 0 {
		return true
	}
	for _, c := range p.Colors {
		if contains(spec.Colors, c) {
			return true
		}
	}
	return false
}

// Filter returns the matching products in input order.
func Filter(products []Product, spec FilterSpec) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if Matches(p, spec) {
			out = append(out, p)
		}
	}
	return out
}

func matchesQuery(p Product, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Brand), q) ||
		strings.Contains(strings.ToLower(string(p.Category)), q)
}

func memberOf(value string, set []string) bool {
	if len(set) == 0 {
		return true
	}
	return contains(set, value)
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
