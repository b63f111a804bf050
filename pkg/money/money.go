// Package money formatea montos en dólares para mensajes y documentos.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatUSD devuelve el monto como "$1,234.56" (dos decimales, separador de miles en-US).
func FormatUSD(amount decimal.Decimal) string {
	p := message.NewPrinter(language.AmericanEnglish)
	f, _ := amount.Round(2).Abs().Float64()
	s := p.Sprint(number.Decimal(f, number.Scale(2)))
	if amount.Round(2).IsNegative() {
		return "-$" + strings.TrimPrefix(s, "-")
	}
	return "$" + s
}
