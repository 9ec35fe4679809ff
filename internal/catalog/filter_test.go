package catalog

import "testing"

func ptr(v float64) *float64 {
	return &v
}

func sampleProduct() Product {
	return Product{
		ID:            "box-1",
		Name:          "Коробка для переезда",
		Dimensions:    Dimensions{Length: 600, Width: 400, Height: 400},
		UnitPrice:     95,
		Colors:        []string{"бурый", "белый"},
		CardboardType: CardboardFiveLayer,
		Brand:         "Гофропак",
		Category:      CategoryFourFlap,
		Availability:  AvailabilityInStock,
	}
}

func TestMatches_EmptySpecMatchesEverything(t *testing.T) {
	t.Parallel()

	products := []Product{sampleProduct(), {}, {Name: "x", Colors: nil, UnitPrice: -5}}
	for _, p := range products {
		if !Matches(p, FilterSpec{}) {
			t.Fatalf("expected empty spec to match %+v", p)
		}
	}
	if !(FilterSpec{}).IsZero() {
		t.Fatalf("expected zero spec")
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	p := sampleProduct()
	tests := []struct {
		name string
		spec FilterSpec
		want bool
	}{
		{name: "query matches name case-insensitively", spec: FilterSpec{Query: "ПЕРЕЕЗД"}, want: true},
		{name: "query matches brand", spec: FilterSpec{Query: "гофро"}, want: true},
		{name: "query matches category", spec: FilterSpec{Query: "клапан"}, want: true},
		{name: "query misses", spec: FilterSpec{Query: "пицца"}, want: false},
		{name: "blank query ignored", spec: FilterSpec{Query: "   "}, want: true},
		{name: "length lower bound inclusive", spec: FilterSpec{Length: Range{Min: ptr(600)}}, want: true},
		{name: "length upper bound inclusive", spec: FilterSpec{Length: Range{Max: ptr(600)}}, want: true},
		{name: "width above max", spec: FilterSpec{Width: Range{Max: ptr(399)}}, want: false},
		{name: "height below min", spec: FilterSpec{Height: Range{Min: ptr(401)}}, want: false},
		{name: "price in range", spec: FilterSpec{Price: Range{Min: ptr(90), Max: ptr(100)}}, want: true},
		{name: "price out of range", spec: FilterSpec{Price: Range{Max: ptr(94.99)}}, want: false},
		{name: "type member", spec: FilterSpec{CardboardTypes: []string{"3-слойный", "5-слойный"}}, want: true},
		{name: "type not member", spec: FilterSpec{CardboardTypes: []string{"3-слойный"}}, want: false},
		{name: "brand not member", spec: FilterSpec{Brands: []string{"Другой"}}, want: false},
		{name: "category member", spec: FilterSpec{Categories: []string{"четырехклапанные"}}, want: true},
		{name: "color overlap", spec: FilterSpec{Colors: []string{"красный", "белый"}}, want: true},
		{name: "color no overlap", spec: FilterSpec{Colors: []string{"красный"}}, want: false},
		{
			name: "conditions are ANDed",
			spec: FilterSpec{Query: "коробка", Brands: []string{"Гофропак"}, Price: Range{Min: ptr(100)}},
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Matches(p, tt.spec); got != tt.want {
				t.Fatalf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatches_SingleColorIffMember(t *testing.T) {
	t.Parallel()

	p := sampleProduct()
	for _, color := range []string{"бурый", "белый", "красный", ""} {
		want := false
		for _, c := range p.Colors {
			if c == color {
				want = true
			}
		}
		if got := Matches(p, FilterSpec{Colors: []string{color}}); got != want {
			t.Fatalf("color %q: got %v, want %v", color, got, want)
		}
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	a := sampleProduct()
	b := sampleProduct()
	b.ID = "box-2"
	b.Brand = "Другой"
	input := []Product{a, b}

	out := Filter(input, FilterSpec{Brands: []string{"Другой"}})
	if len(out) != 1 || out[0].ID != "box-2" {
		t.Fatalf("unexpected result: %+v", out)
	}
	if input[0].ID != "box-1" || input[1].ID != "box-2" {
		t.Fatalf("input was mutated: %+v", input)
	}
}
