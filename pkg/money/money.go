// Package money centralises rounding and display of monetary values. The
// aggregation layer sums in float64; everything that leaves the API goes
// through Round2 so reported figures carry at most two fraction digits.
package money

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Round2 rounds half-up to two decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// FormatUSD renders a value as a display string like "$1,234.56". Negative
// values keep their sign.
func FormatUSD(v float64) string {
	cents := decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

// FormatPercent renders a percentage with exactly one fraction digit,
// e.g. 12.34 becomes "12.3%" and 0 becomes "0.0%".
func FormatPercent(pct float64) string {
	return decimal.NewFromFloat(pct).StringFixed(1) + "%"
}
