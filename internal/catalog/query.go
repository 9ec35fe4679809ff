package catalog

import "slices"

// Facets lists the distinct categorical values of the whole, unfiltered catalog
// in first-seen order.
type Facets struct {
	CardboardTypes []string `json:"cardboard_types"`
	Brands         []string `json:"brands"`
	Categories     []string `json:"categories"`
	Colors         []string `json:"colors"`
}

// Clone returns a deep copy of f.
func (f Facets) Clone() Facets {
	return Facets{
		CardboardTypes: slices.Clone(f.CardboardTypes),
		Brands:         slices.Clone(f.Brands),
		Categories:     slices.Clone(f.Categories),
		Colors:         slices.Clone(f.Colors),
	}
}

func ComputeFacets(products []Product) Facets {
	types := newDistinct()
	brands := newDistinct()
	cats := newDistinct()
	colors := newDistinct()

	for _, p := range products {
		types.add(string(p.CardboardType))
		brands.add(p.Brand)
		cats.add(string(p.Category))
		for _, c := range p.Colors {
			colors.add(c)
		}
	}

	return Facets{
		CardboardTypes: types.values,
		Brands:         brands.values,
		Categories:     cats.values,
		Colors:         colors.values,
	}
}

type distinct struct {
	seen   map[string]struct{}
	values []string
}

func newDistinct() *distinct {
	return &distinct{seen: map[string]struct{}{}, values: []string{}}
}

func (d *distinct) add(v string) {
	if v == "" {
		return
	}
	if _, ok := d.seen[v]; ok {
		return
	}
	d.seen[v] = struct{}{}
	d.values = append(d.values, v)
}

// Snapshot is an immutable view of the catalog with its facets computed once.
type Snapshot struct {
	products []Product
	facets   Facets
	index    map[string]int
}

func NewSnapshot(products []Product) *Snapshot {
	owned := slices.Clone(products)
	index := make(map[string]int, len(owned))
	for i, p := range owned {
		index[p.ID] = i
	}
	return &Snapshot{
		products: owned,
		facets:   ComputeFacets(owned),
		index:    index,
	}
}

// Products returns a copy of the snapshot's records in source order.
func (s *Snapshot) Products() []Product {
	return slices.Clone(s.products)
}

func (s *Snapshot) Facets() Facets {
	return s.facets.Clone()
}

func (s *Snapshot) Len() int {
	return len(s.products)
}

func (s *Snapshot) Product(id string) (Product, bool) {
	i, ok := s.index[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

type Result struct {
	Items        []Product `json:"items"`
	Page         int       `json:"page"`
	TotalPages   int       `json:"total_pages"`
	TotalMatched int       `json:"total_matched"`
	Facets       Facets    `json:"facets"`
}

// Query runs filter, sort and paginate over the snapshot, in that order.
func Query(snap *Snapshot, filter FilterSpec, sort SortSpec, page PageRequest) Result {
	if snap == nil {
		snap = NewSnapshot(nil)
	}

	matched := Filter(snap.products, filter)
	sorted := ProductSorter.Sort(matched, sort)
	paged := Paginate(sorted, page)

	return Result{
		Items:        paged.Items,
		Page:         paged.Number,
		TotalPages:   paged.TotalPages,
		TotalMatched: len(matched),
		Facets:       snap.facets.Clone(),
	}
}

// Run executes the query described by a view state.
func (s *Snapshot) Run(state ViewState, pageSize int) Result {
	return Query(s, state.Filter, state.Sort, PageRequest{Number: state.Page, Size: pageSize})
}
