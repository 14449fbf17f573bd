package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const moneyPrecision = 2

// Money converts an engine float to a decimal rounded to two places for display and storage.
// Non-finite input yields zero.
func Money(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(moneyPrecision)
}

// RoundCurrency rounds to the nearest whole currency unit, halves rounding up.
func RoundCurrency(v float64) float64 {
	return math.Floor(v + 0.5)
}

// ParseAmount parses a user-entered number. Grouping commas and underscores are ignored.
func ParseAmount(value string) (float64, error) {
	s := strings.TrimSpace(value)
	s = strings.NewReplacer(",", "", "_", "").Replace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", value, err)
	}
	f, _ := d.Float64()
	return f, nil
}
