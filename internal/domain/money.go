package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "CA$",
	"AUD": "A$",
	"BRL": "R$",
}

// zero-decimal currencies
var wholeUnitCurrencies = map[string]bool{"JPY": true, "KRW": true}

// FormatPrice renders price for display, e.g. "$4.99" or "4.99 CHF".
// An empty currency renders the bare amount.
func FormatPrice(price decimal.Decimal, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	places := int32(2)
	if wholeUnitCurrencies[currency] {
		places = 0
	}
	amount := price.StringFixed(places)
	if sym, ok := currencySymbols[currency]; ok {
		return sym + amount
	}
	if currency == "" {
		return amount
	}
	return amount + " " + currency
}

// DisplayPrice is FormatPrice with "Free" for zero.
func DisplayPrice(price decimal.Decimal, currency string) string {
	if price.IsZero() {
		return "Free"
	}
	return FormatPrice(price, currency)
}
