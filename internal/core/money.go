// Package core provides money parsing and handling utilities.
//
// Records keep amounts as float64 because that is their persisted JSON
// shape. Anything that adds amounts together converts them to
// decimal.Decimal first so totals stay exact.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Totals go out as JSON numbers, the same shape as record amounts.
	decimal.MarshalJSONWithoutQuotes = true
}

// Amount converts a record amount to a decimal using its shortest exact representation.
func Amount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// Float converts a decimal back to the record representation.
func Float(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// ParseAmount parses a user-entered amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// rounds half-up to cents. Zero is allowed, negative values are not.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,345") -> 12.35, nil
//	ParseAmount("abc")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}
