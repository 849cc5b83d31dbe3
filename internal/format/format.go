// Package format renders monetary and numeric values for terminal output.
package format

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NotANumber is printed for values that cannot be represented
const NotANumber = "n/a"

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats v as US dollars with two decimals. Negative amounts use
// accounting parentheses, e.g. ($1,234.50).
func Currency(v float64) string {
	if !finite(v) {
		return NotANumber
	}
	d := decimal.NewFromFloat(v).Round(2)
	s := "$" + grouped(d.Abs(), 2)
	if d.IsNegative() {
		return "(" + s + ")"
	}
	return s
}

// Percent formats a ratio (0.1 for 10%) with two decimals
func Percent(ratio float64) string {
	if !finite(ratio) {
		return NotANumber
	}
	return decimal.NewFromFloat(ratio).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// Number formats v with thousands separators and the given decimal places
func Number(v float64, places int32) string {
	if !finite(v) {
		return NotANumber
	}
	d := decimal.NewFromFloat(v).Round(places)
	s := grouped(d.Abs(), places)
	if d.IsNegative() {
		return "-" + s
	}
	return s
}

// grouped prints an already rounded amount with US thousands separators
func grouped(d decimal.Decimal, places int32) string {
	return printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(int(places))))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
