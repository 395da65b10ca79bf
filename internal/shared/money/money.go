// Package money holds the rounding policy for stored monetary values.
// Every arithmetic result that is persisted is rounded half away from zero to
// Scale fractional digits, matching the decimal(30,8) columns.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for amounts, prices and USD
// values.
const Scale int32 = 8

// Round applies the storage rounding policy.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Mul multiplies and rounds.
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return Round(a.Mul(b))
}

// Add adds and rounds.
func Add(a, b decimal.Decimal) decimal.Decimal {
	return Round(a.Add(b))
}

// ParsePositive parses s as a strictly positive decimal, rounded to Scale.
func ParsePositive(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("value %s must be positive", d.String())
	}
	return Round(d), nil
}

// Format renders d with exactly Scale fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
