package currency

import (
	"strings"

	"github.com/shopspring/decimal"
	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ValidCode informa si code es un código ISO 4217 reconocido.
func ValidCode(code string) bool {
	_, err := xcurrency.ParseISO(strings.ToUpper(code))
	return err == nil
}

// FormatAmount etiqueta legible: "USD 1,234.50" (separadores según lang, 2 decimales).
// Solo presentación; los cálculos nunca pasan por aquí.
func FormatAmount(amount decimal.Decimal, code, lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	label := strings.ToUpper(code)
	if unit, err := xcurrency.ParseISO(label); err == nil {
		label = unit.String()
	}
	f := amount.Round(2).InexactFloat64()
	return label + " " + p.Sprint(number.Decimal(f, number.Scale(2)))
}
