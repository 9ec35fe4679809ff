package catalog

// PriceBreak is one step of the quantity discount ladder.
type PriceBreak struct {
	MinQuantity int     `json:"min_quantity"`
	Discount    float64 `json:"discount"`
}

// priceBreaks is ordered from the highest threshold down; the first match wins.
var priceBreaks = []PriceBreak{
	{MinQuantity: 20000, Discount: 0.7},
	{MinQuantity: 10000, Discount: 0.6},
	{MinQuantity: 5000, Discount: 0.5},
	{MinQuantity: 1000, Discount: 0.4},
	{MinQuantity: 500, Discount: 0.3},
	{MinQuantity: 100, Discount: 0.2},
}

// Discount returns the flat per-unit discount for the given order quantity.
func Discount(quantity int) float64 {
	for _, b := range priceBreaks {
		if quantity >= b.MinQuantity {
			return b.Discount
		}
	}
	return 0
}

// EffectiveUnitPrice applies the quantity discount to a base unit price. Inputs are not
// validated and the result is not rounded.
func EffectiveUnitPrice(base float64, quantity int) float64 {
	return base - Discount(quantity)
}

// LineTotal is the cost of quantity units at the tiered unit price.
func LineTotal(base float64, quantity int) float64 {
	return EffectiveUnitPrice(base, quantity) * float64(quantity)
}

// PriceBreaks returns the ladder in ascending threshold order.
func PriceBreaks() []PriceBreak {
	out := make([]PriceBreak, len(priceBreaks))
	for i, b := range priceBreaks {
		out[len(priceBreaks)-1-i] = b
	}
	return out
}
