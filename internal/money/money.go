// Package money formats rouble amounts for API responses and e-mails.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Amount converts a float price into a decimal rounded to kopecks.
// Non-finite values become zero.
func Amount(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(2)
}

// Format renders v with exactly two fraction digits, e.g. "24.70".
func Format(v float64) string {
	return Amount(v).StringFixed(2)
}

// Mul multiplies a unit price by a quantity without float drift in the result.
func Mul(unit float64, quantity int) decimal.Decimal {
	return Amount(unit).Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
