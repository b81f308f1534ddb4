// Package decimal wraps shopspring/decimal with the three precision classes
// used by UBL invoices: money amounts carry 2 fractional digits, quantities
// and unit prices 3, and tax rates 2 (as a percentage).
package decimal

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

const (
	moneyPlaces    = 2
	quantityPlaces = 3
	ratePlaces     = 2
)

// FromString parses a decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses a decimal from string, panics on error.
// Intended for constants and tests.
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Money rounds to money precision
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// Quantity rounds to quantity/price precision
func Quantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(quantityPlaces)
}

// Rate rounds to rate precision
func Rate(d decimal.Decimal) decimal.Decimal {
	return d.Round(ratePlaces)
}

// FormatMoney renders a fixed-point money string (e.g. "110.00")
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(moneyPlaces)
}

// FormatQuantity renders a fixed-point quantity string (e.g. "2.000")
func FormatQuantity(d decimal.Decimal) string {
	return d.StringFixed(quantityPlaces)
}

// FormatRate renders a fixed-point percentage string (e.g. "15.00")
func FormatRate(d decimal.Decimal) string {
	return d.StringFixed(ratePlaces)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}
