package catalog

import (
	"testing"
)

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{
			name: "valid seed",
			yaml: `
products:
  - id: "box-1"
    name: "Коробка самосборная"
    size: "300x200x150"
    price: 42.5
    colors: ["бурый", "белый"]
    cardboard_type: "3-слойный"
    brand: "Гофропак"
    category: "самосборные"
    availability: "в наличии"
    package_size: 50
inventory:
  - id: "stock-1"
    name: "Лист Т-23"
    size: "1200x800x5"
    quantity: 340
    price: 18
`,
			wantErr: false,
		},
		{
			name:    "invalid yaml",
			yaml:    "invalid: yaml: content:",
			wantErr: true,
		},
	}

	parser := NewParser()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed, err := parser.ParseFromString(tt.yaml)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if len(seed.Products) != 1 {
				t.Fatalf("expected 1 product, got %d", len(seed.Products))
			}
			product := seed.Products[0]
			if product.Size != "300x200x150" || product.PackageSize != 50 {
				t.Errorf("unexpected product: %+v", product)
			}
			if len(product.Colors) != 2 || product.Colors[0] != "бурый" {
				t.Errorf("expected colors in file order, got %v", product.Colors)
			}
			if len(seed.Inventory) != 1 || seed.Inventory[0].Quantity != 340 {
				t.Errorf("unexpected inventory: %+v", seed.Inventory)
			}
		})
	}
}
