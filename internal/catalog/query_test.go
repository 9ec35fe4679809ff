package catalog

import (
	"fmt"
	"reflect"
	"testing"
)

func twentyProducts() []Product {
	products := make([]Product, 0, 20)
	for i := 0; i < 20; i++ {
		category := CategorySelfAssembly
		if i%3 == 0 {
			category = CategoryFourFlap
		}
		products = append(products, Product{
			ID:            fmt.Sprintf("box-%02d", i),
			Name:          fmt.Sprintf("Коробка %02d", i),
			Dimensions:    Dimensions{Length: float64(100 + i*10), Width: 200, Height: 100},
			UnitPrice:     float64((i*37)%50) + 10,
			Colors:        []string{[]string{"бурый", "белый", "красный"}[i%3]},
			CardboardType: []CardboardType{CardboardMicro, CardboardThreeLayer, CardboardFiveLayer}[i%3],
			Brand:         []string{"Гофропак", "Картонная фабрика"}[i%2],
			Category:      category,
			Availability:  AvailabilityInStock,
		})
	}
	return products
}

func TestQuery_FilterSortPaginate(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot(twentyProducts())
	result := Query(snap,
		FilterSpec{Categories: []string{"самосборные"}},
		SortSpec{Field: SortPrice, Direction: Descending},
		PageRequest{Number: 1, Size: 9},
	)

	if result.TotalMatched != 13 {
		t.Fatalf("expected 13 matches, got %d", result.TotalMatched)
	}
	if result.TotalPages != 2 {
		t.Fatalf("expected 2 pages, got %d", result.TotalPages)
	}
	if len(result.Items) > 9 || len(result.Items) == 0 {
		t.Fatalf("unexpected page length %d", len(result.Items))
	}
	for i, p := range result.Items {
		if p.Category != CategorySelfAssembly {
			t.Fatalf("item %s has category %s", p.ID, p.Category)
		}
		if i > 0 && p.UnitPrice > result.Items[i-1].UnitPrice {
			t.Fatalf("prices increase at %d", i)
		}
	}
}

func TestQuery_FacetsComeFromUnfilteredCatalog(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot(twentyProducts())
	result := Query(snap, FilterSpec{Brands: []string{"Гофропак"}, Colors: []string{"бурый"}}, SortSpec{}, PageRequest{Number: 1})

	if len(result.Facets.Brands) != 2 {
		t.Fatalf("expected both brands in facets, got %v", result.Facets.Brands)
	}
	if !reflect.DeepEqual(result.Facets.Colors, []string{"бурый", "белый", "красный"}) {
		t.Fatalf("expected colors in first-seen order, got %v", result.Facets.Colors)
	}
	if !reflect.DeepEqual(result.Facets.Categories, []string{"четырехклапанные", "самосборные"}) {
		t.Fatalf("unexpected categories: %v", result.Facets.Categories)
	}
}

func TestQuery_FacetsAreIsolatedFromCaller(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot(twentyProducts())
	first := Query(snap, FilterSpec{}, SortSpec{}, PageRequest{Number: 1})
	want := Query(snap, FilterSpec{}, SortSpec{}, PageRequest{Number: 1}).Facets

	first.Facets.Brands[0] = "подменный"
	first.Facets.Colors = append(first.Facets.Colors[:0], "зеленый")
	accessor := snap.Facets()
	accessor.Categories[0] = "подменная"

	if got := Query(snap, FilterSpec{}, SortSpec{}, PageRequest{Number: 1}).Facets; !reflect.DeepEqual(got, want) {
		t.Fatalf("facets changed through a returned value: got %+v, want %+v", got, want)
	}
	if got := snap.Facets(); !reflect.DeepEqual(got, want) {
		t.Fatalf("snapshot facets changed: got %+v, want %+v", got, want)
	}
}

func TestQuery_IsIdempotent(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot(twentyProducts())
	filter := FilterSpec{Query: "коробка", Price: Range{Min: ptr(20)}}
	sort := SortSpec{Field: SortName, Direction: Descending}
	page := PageRequest{Number: 2, Size: 4}

	first := Query(snap, filter, sort, page)
	second := Query(snap, filter, sort, page)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ between identical calls")
	}

	again := Query(NewSnapshot(twentyProducts()), filter, sort, page)
	if !reflect.DeepEqual(first, again) {
		t.Fatalf("results differ between deep-equal snapshots")
	}
}

func TestQuery_EmptyCatalog(t *testing.T) {
	t.Parallel()

	result := Query(NewSnapshot(nil), FilterSpec{}, SortSpec{}, PageRequest{Number: 1, Size: 9})
	if result.TotalMatched != 0 || result.TotalPages != 1 || len(result.Items) != 0 {
		t.Fatalf("unexpected empty result: %+v", result)
	}
}

func TestSnapshot_IsIsolatedFromCaller(t *testing.T) {
	t.Parallel()

	products := twentyProducts()
	snap := NewSnapshot(products)
	products[0].Name = "changed"

	p, ok := snap.Product("box-00")
	if !ok || p.Name != "Коробка 00" {
		t.Fatalf("snapshot observed caller mutation: %+v", p)
	}
	if _, ok := snap.Product("missing"); ok {
		t.Fatalf("expected missing product lookup to fail")
	}
}
