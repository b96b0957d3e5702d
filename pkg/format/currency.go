// Package format renders monetary and percentage values for display.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	abs := d.Abs()
	whole := abs.Truncate(0)
	cents := abs.Sub(whole).StringFixed(2)
	formatted := message.NewPrinter(language.English).Sprintf("%d", whole.IntPart()) + cents[1:]
	if d.IsNegative() {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Fixed returns amount rounded half away from zero to places decimals with no grouping.
func Fixed(amount float64, places int32) string {
	return decimal.NewFromFloat(amount).StringFixed(places)
}

// Percent renders a fractional rate as a percentage with one decimal (0.125 -> "12.5%").
func Percent(rate float64) string {
	return decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
