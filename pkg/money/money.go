// Package money formats prices for display.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Format renders an amount in US dollars with two decimals and grouping,
// e.g. 1234.5 becomes "$1,234.50".
func Format(amount float64) string {
	if amount < 0 {
		return "-$" + Decimal(-amount)
	}
	return "$" + Decimal(amount)
}

// Decimal renders an amount with two fixed decimals and no symbol.
func Decimal(amount float64) string {
	return printer.Sprint(number.Decimal(amount, number.Scale(2)))
}
