package currency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Cotiza-api/internal/domain/currency"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNormalize(t *testing.T) {
	rates := currency.RateTable{"USD": d("1"), "EUR": d("0.5"), "COP": d("4000")}
	captured := d("0.8")

	tests := []struct {
		name     string
		amount   decimal.Decimal
		from     string
		base     string
		captured *decimal.Decimal
		want     decimal.Decimal
	}{
		{"misma moneda sin cambios", d("100"), "USD", "USD", nil, d("100")},
		{"misma moneda ignora tasa capturada", d("100"), "usd", "USD", &captured, d("100")},
		{"usa tabla si no hay tasa capturada", d("100"), "EUR", "USD", nil, d("200")},
		{"prefiere tasa capturada", d("100"), "EUR", "USD", &captured, d("125")},
		{"tabla cruzada", d("8000"), "COP", "EUR", nil, d("1")},
		{"moneda ausente vale 1", d("100"), "XYZ", "USD", nil, d("100")},
		{"base ausente vale 1", d("100"), "EUR", "XYZ", nil, d("200")},
		{"tasa capturada cero cae a la tabla", d("100"), "EUR", "USD", ptr(decimal.Zero), d("200")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := currency.Normalize(tt.amount, tt.from, tt.base, rates, tt.captured)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

// Cambiar la tabla después de crear el documento no altera el monto normalizado con su tasa capturada.
func TestNormalize_TasaCapturadaInmuneACambiosDeTabla(t *testing.T) {
	rates := currency.RateTable{"USD": d("1"), "EUR": d("0.5")}
	snap := currency.Snapshot("EUR", "USD", rates)
	before := currency.NormalizeCaptured(d("50"), "EUR", "USD", rates, snap)

	rates["EUR"] = d("0.9")
	after := currency.NormalizeCaptured(d("50"), "EUR", "USD", rates, snap)

	assert.True(t, before.Equal(after))
	assert.True(t, d("100").Equal(after))

	live := currency.Normalize(d("50"), "EUR", "USD", rates, nil)
	assert.False(t, live.Equal(after), "sin tasa capturada sí refleja la tabla nueva")
}

func TestSnapshot(t *testing.T) {
	rates := currency.RateTable{"USD": d("1"), "EUR": d("0.5")}
	assert.True(t, d("1").Equal(currency.Snapshot("USD", "USD", rates)))
	assert.True(t, d("0.5").Equal(currency.Snapshot("EUR", "USD", rates)))
	assert.True(t, d("2").Equal(currency.Snapshot("USD", "EUR", rates)))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "USD 1,234,567.89", currency.FormatAmount(d("1234567.891"), "usd", "en"))
	assert.Equal(t, "USD 0.00", currency.FormatAmount(decimal.Zero, "USD", "en"))
}

func TestValidCode(t *testing.T) {
	assert.True(t, currency.ValidCode("EUR"))
	assert.True(t, currency.ValidCode("cop"))
	assert.False(t, currency.ValidCode("ZZZZ"))
}

func ptr(v decimal.Decimal) *decimal.Decimal { return &v }
