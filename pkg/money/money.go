package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var centsFactor = decimal.NewFromInt(100)

// ParseCents converts a decimal amount string (e.g. "12.50") into integer
// cents. Amounts with more than two fractional digits are rejected rather
// than silently rounded.
func ParseCents(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("amount is required")
	}

	dec, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if dec.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative")
	}
	if dec.Exponent() < -2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", value)
	}

	cents := dec.Mul(centsFactor)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than two decimal places", value)
	}
	return int(cents.IntPart()), nil
}

// FormatCents renders integer cents as a two-decimal amount string.
func FormatCents(cents int) string {
	return decimal.NewFromInt(int64(cents)).Div(centsFactor).StringFixed(2)
}
