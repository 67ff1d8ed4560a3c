// Package money formats currency amounts for display.
package money

import (
	"strings"

	"github.com/dustin/go-humanize"
)

var symbols = map[string]string{
	"USD": "$",
	"BRL": "R$",
	"EUR": "€",
	"GBP": "£",
}

// Format renders amount with two decimals and thousands separators, prefixed
// with the currency symbol (or the ISO code and a space when unknown).
func Format(amount float64, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}
	prefix, ok := symbols[currency]
	if !ok {
		prefix = currency + " "
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + prefix + humanize.FormatFloat("#,###.##", amount)
}

// Tons renders an integer tonnage with thousands separators.
func Tons(n int) string {
	return humanize.Comma(int64(n))
}
