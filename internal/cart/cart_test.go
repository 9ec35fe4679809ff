package cart

import (
	"math"
	"testing"
)

func TestNormalizeQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		requested   int
		packageSize int
		want        int
	}{
		{name: "rounds up", requested: 150, packageSize: 100, want: 200},
		{name: "exact multiple", requested: 100, packageSize: 100, want: 100},
		{name: "floored at one package", requested: 1, packageSize: 100, want: 100},
		{name: "zero", requested: 0, packageSize: 100, want: 100},
		{name: "negative", requested: -250, packageSize: 100, want: 100},
		{name: "default package size", requested: 301, packageSize: 0, want: 400},
		{name: "custom package size", requested: 26, packageSize: 25, want: 50},
		{name: "large multiple", requested: 20000, packageSize: 50, want: 20000},
		{name: "clamped above line limit", requested: MaxLineQuantity + 1, packageSize: 100, want: MaxLineQuantity},
		{name: "near max int does not wrap", requested: math.MaxInt - 5, packageSize: 100, want: MaxLineQuantity},
		{name: "clamped then rounded", requested: math.MaxInt, packageSize: 30, want: 10_000_020},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeQuantity(tt.requested, tt.packageSize); got != tt.want {
				t.Fatalf("NormalizeQuantity(%d, %d) = %d, want %d", tt.requested, tt.packageSize, got, tt.want)
			}
		})
	}
}

func TestSetQuantity(t *testing.T) {
	t.Parallel()

	line := Line{ProductID: "box-1", PackageSize: 100, Quantity: 100}
	for requested, want := range map[int]int{150: 200, 100: 100, 1: 100} {
		if got := SetQuantity(line, requested).Quantity; got != want {
			t.Fatalf("SetQuantity(%d) = %d, want %d", requested, got, want)
		}
	}
	if line.Quantity != 100 {
		t.Fatalf("input line was mutated")
	}
}

func TestAddLine_MergesByProduct(t *testing.T) {
	t.Parallel()

	c := AddLine(Cart{}, Line{ProductID: "a", Quantity: 150, UnitPrice: 10})
	c = AddLine(c, Line{ProductID: "b", Quantity: 50, UnitPrice: 20, PackageSize: 50})
	merged := AddLine(c, Line{ProductID: "a", Quantity: 120, UnitPrice: 10})

	if len(merged.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(merged.Lines))
	}
	if merged.Lines[0].Quantity != 400 {
		t.Fatalf("expected merged quantity 400 (200+120 rounded up), got %d", merged.Lines[0].Quantity)
	}
	if c.Lines[0].Quantity != 200 {
		t.Fatalf("previous cart was mutated: %+v", c.Lines[0])
	}
}

func TestMergedQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing int
		added    int
		want     int
	}{
		{name: "plain sum", existing: 200, added: 120, want: 320},
		{name: "exactly at limit", existing: MaxLineQuantity - 100, added: 100, want: MaxLineQuantity},
		{name: "over limit", existing: MaxLineQuantity, added: 100, want: MaxLineQuantity + 1},
		{name: "would overflow int", existing: 500, added: math.MaxInt - 10, want: MaxLineQuantity + 1},
		{name: "negative existing", existing: -50, added: 100, want: 100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := MergedQuantity(tt.existing, tt.added); got != tt.want {
				t.Fatalf("MergedQuantity(%d, %d) = %d, want %d", tt.existing, tt.added, got, tt.want)
			}
		})
	}
}

func TestAddLine_HugeMergeDoesNotWrap(t *testing.T) {
	t.Parallel()

	c := AddLine(Cart{}, Line{ProductID: "a", Quantity: 500})
	c = AddLine(c, Line{ProductID: "a", Quantity: math.MaxInt - 10})

	if got := c.Lines[0].Quantity; got < MaxLineQuantity {
		t.Fatalf("expected merged quantity clamped at the line limit, got %d", got)
	}
}

func TestUpdateAndRemoveLine(t *testing.T) {
	t.Parallel()

	c := AddLine(Cart{}, Line{ProductID: "a", Quantity: 100})
	updated, ok := UpdateLine(c, "a", 730)
	if !ok || updated.Lines[0].Quantity != 800 {
		t.Fatalf("unexpected update: %+v %v", updated, ok)
	}
	if _, ok := UpdateLine(c, "missing", 100); ok {
		t.Fatalf("expected missing line to report false")
	}

	removed := RemoveLine(updated, "a")
	if !removed.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", removed)
	}
	if len(updated.Lines) != 1 {
		t.Fatalf("remove mutated the input cart")
	}
}

func TestCartTotal_UsesTieredPrice(t *testing.T) {
	t.Parallel()

	price := 10.0
	c := Cart{Lines: []Line{
		{ProductID: "a", Quantity: 500, UnitPrice: price},
		{ProductID: "b", Quantity: 100, UnitPrice: price},
	}}

	want := (price-0.3)*500 + (price-0.2)*100
	if got := c.Total(); got != want {
		t.Fatalf("total = %v, want %v", got, want)
	}
	if c.Units() != 600 {
		t.Fatalf("expected 600 units, got %d", c.Units())
	}
	if got, want := c.Lines[0].EffectiveUnitPrice(), price-0.3; got != want {
		t.Fatalf("effective unit price = %v, want %v", got, want)
	}
}
