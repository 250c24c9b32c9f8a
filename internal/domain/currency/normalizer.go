// Package currency convierte montos a la moneda base de la organización.
//
// Cada documento guarda la tasa vigente al crearse (tasa capturada). La normalización
// usa esa tasa cuando existe, de modo que editar la tabla de tasas no altera retroactivamente
// los montos ya registrados. La tabla viva solo se usa para documentos sin tasa capturada.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RateTable unidades de cada moneda por 1 unidad de la moneda base.
type RateTable map[string]decimal.Decimal

// rate devuelve la tasa de code; una entrada ausente (o no positiva) vale 1.
func (t RateTable) rate(code string) decimal.Decimal {
	r, ok := t[strings.ToUpper(code)]
	if !ok || !r.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return r
}

// Snapshot tasa a capturar al crear un documento en from, con la tabla vigente.
func Snapshot(from, base string, rates RateTable) decimal.Decimal {
	if sameCurrency(from, base) {
		return decimal.NewFromInt(1)
	}
	return rates.rate(from).Div(rates.rate(base))
}

// EffectiveRate tasa usada para convertir from → base: la capturada si es positiva, si no la de la tabla.
func EffectiveRate(from, base string, rates RateTable, captured *decimal.Decimal) decimal.Decimal {
	if sameCurrency(from, base) {
		return decimal.NewFromInt(1)
	}
	if captured != nil && captured.IsPositive() {
		return *captured
	}
	return Snapshot(from, base, rates)
}

// Normalize convierte amount (expresado en from) a la moneda base. Nunca falla.
func Normalize(amount decimal.Decimal, from, base string, rates RateTable, captured *decimal.Decimal) decimal.Decimal {
	if sameCurrency(from, base) {
		return amount
	}
	r := EffectiveRate(from, base, rates, captured)
	if r.IsZero() {
		return amount
	}
	return amount.Div(r)
}

// NormalizeCaptured atajo para documentos con tasa capturada como valor (cero = sin capturar).
func NormalizeCaptured(amount decimal.Decimal, from, base string, rates RateTable, captured decimal.Decimal) decimal.Decimal {
	return Normalize(amount, from, base, rates, &captured)
}

func sameCurrency(from, base string) bool {
	return from == "" || strings.EqualFold(from, base)
}
