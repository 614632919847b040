package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses a money field from form input. At most two fractional
// digits are accepted, matching the decimal(10,2) columns.
func parseAmount(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, validationErrorf("amount is required")
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, validationErrorf("invalid amount %q", text)
	}
	if d.Exponent() < -2 {
		return decimal.Zero, validationErrorf("amount %q has more than two decimal places", text)
	}
	return d, nil
}

// parsePrice is parseAmount plus the non-negative rule for dish prices.
func parsePrice(text string) (decimal.Decimal, error) {
	d, err := parseAmount(text)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, validationErrorf("price cannot be negative")
	}
	return d, nil
}
