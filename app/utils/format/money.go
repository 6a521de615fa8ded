package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"RUB": "₽",
	"USD": "$",
	"EUR": "€",
}

// FormatMoney renders an amount with thousands separators and the currency
// symbol, e.g. "1 250 000 ₽".
func FormatMoney(amount decimal.Decimal, currency string) string {
	str := amount.StringFixed(0)

	negative := strings.HasPrefix(str, "-")
	if negative {
		str = str[1:]
	}

	n := len(str)
	var b strings.Builder
	for i, char := range str {
		b.WriteRune(char)
		if (n-1-i)%3 == 0 && i != n-1 {
			b.WriteRune(' ')
		}
	}

	out := b.String()
	if negative {
		out = "-" + out
	}

	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency
	}
	return out + " " + symbol
}
