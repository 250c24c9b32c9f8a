package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/pricing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: want %s got %s", msg, want, got)
}

func line(freq entity.Frequency, qty, price, cost string, months int) entity.QuoteLineItem {
	return entity.QuoteLineItem{
		Quantity:         d(qty),
		UnitPrice:        d(price),
		UnitCost:         d(cost),
		BillingFrequency: freq,
		ContractMonths:   months,
		DownPayment:      entity.Adjustment{Value: decimal.Zero, Kind: entity.AmountFixed},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Línea
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculateLine_OneTime(t *testing.T) {
	f := pricing.CalculateLine(line(entity.FrequencyOneTime, "2", "100", "40", 12))

	assertDec(t, "200", f.GrossValue, "one_time ignora contractMonths")
	assertDec(t, "80", f.COGS, "cogs")
	assertDec(t, "200", f.DueAtSigning, "todo se paga al firmar")
	assertDec(t, "0", f.Recurring, "sin componente recurrente")
}

func TestCalculateLine_Mensual(t *testing.T) {
	f := pricing.CalculateLine(line(entity.FrequencyMonthly, "2", "100", "40", 6))

	assertDec(t, "1200", f.GrossValue, "200 x 6 meses")
	assertDec(t, "480", f.COGS, "80 x 6 meses")
	assertDec(t, "200", f.Recurring, "cuota mensual")
	assertDec(t, "200", f.DueAtSigning, "sin anticipo: una cuota al firmar")
}

func TestCalculateLine_MultiplicadorDeFrecuencia(t *testing.T) {
	tests := []struct {
		freq entity.Frequency
		want string
	}{
		{entity.FrequencyMonthly, "100"},
		{entity.FrequencyQuarterly, "300"},
		{entity.FrequencyAnnual, "1200"},
	}
	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			f := pricing.CalculateLine(line(tt.freq, "1", "100", "0", 12))
			assertDec(t, tt.want, f.Recurring, "cuota")
			assertDec(t, "1200", f.GrossValue, "valor bruto usa contractMonths")
		})
	}
}

func TestCalculateLine_Anticipo(t *testing.T) {
	fixed := line(entity.FrequencyMonthly, "1", "300", "100", 3)
	fixed.DownPayment = entity.Adjustment{Value: d("50"), Kind: entity.AmountFixed}
	assertDec(t, "350", pricing.CalculateLine(fixed).DueAtSigning, "anticipo fijo + cuota")

	pct := line(entity.FrequencyMonthly, "2", "100", "0", 3)
	pct.DownPayment = entity.Adjustment{Value: d("25"), Kind: entity.AmountPercentage}
	assertDec(t, "250", pricing.CalculateLine(pct).DueAtSigning, "25% de 200 + cuota 200")

	oneTime := line(entity.FrequencyOneTime, "1", "100", "0", 1)
	oneTime.DownPayment = entity.Adjustment{Value: d("999"), Kind: entity.AmountFixed}
	assertDec(t, "100", pricing.CalculateLine(oneTime).DueAtSigning, "one_time ignora anticipo")
}

func TestCalculateLine_ContractMonthsInvalidoCuentaComoUno(t *testing.T) {
	f := pricing.CalculateLine(line(entity.FrequencyMonthly, "1", "100", "10", 0))
	assertDec(t, "100", f.GrossValue, "contractMonths 0 -> 1")
}

func TestLineROI(t *testing.T) {
	assertDec(t, "60", pricing.LineROI(line(entity.FrequencyOneTime, "1", "100", "40", 1)), "roi")
	assertDec(t, "0", pricing.LineROI(line(entity.FrequencyOneTime, "1", "0", "40", 1)), "precio 0 no divide")
}

// ──────────────────────────────────────────────────────────────────────────────
// Agregado
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregate_EscenarioCompleto(t *testing.T) {
	it := line(entity.FrequencyMonthly, "1", "300", "100", 3)
	it.DownPayment = entity.Adjustment{Value: d("50"), Kind: entity.AmountFixed}

	tot := pricing.Aggregate([]entity.QuoteLineItem{it}, entity.Adjustment{Kind: entity.AmountFixed}, d("10"))

	assertDec(t, "900", tot.Subtotal, "subtotal")
	assertDec(t, "300", tot.TotalCOGS, "cogs")
	assertDec(t, "900", tot.TotalAmount, "total")
	assertDec(t, "90", tot.CommissionAmount, "comisión")
	assertDec(t, "510", tot.NetProfit, "utilidad neta")
	assertDec(t, "350", tot.DueAtSigning, "al firmar")
	assertDec(t, "300", tot.RecurringAmount, "recurrente")
	assertDec(t, "10", tot.AppliedCommissionRate, "tasa aplicada")
}

func TestAggregate_ComisionSobreNeto(t *testing.T) {
	items := []entity.QuoteLineItem{line(entity.FrequencyOneTime, "10", "100", "0", 1)}
	tot := pricing.Aggregate(items, entity.Adjustment{Value: d("100"), Kind: entity.AmountFixed}, d("5"))

	assertDec(t, "1000", tot.Subtotal, "subtotal")
	assertDec(t, "900", tot.TotalAmount, "total neto")
	assertDec(t, "45", tot.CommissionAmount, "900 * 5%")
}

func TestAggregate_DescuentoPorcentajeEscalaFlujos(t *testing.T) {
	items := []entity.QuoteLineItem{line(entity.FrequencyMonthly, "1", "100", "0", 10)}
	tot := pricing.Aggregate(items, entity.Adjustment{Value: d("10"), Kind: entity.AmountPercentage}, decimal.Zero)

	assertDec(t, "1000", tot.Subtotal, "subtotal")
	assertDec(t, "100", tot.DiscountAmount, "10%")
	assertDec(t, "900", tot.TotalAmount, "total")
	assertDec(t, "0.9", tot.DiscountRatio, "ratio")
	assertDec(t, "90", tot.RecurringAmount, "cuota escalada")
	assertDec(t, "90", tot.DueAtSigning, "al firmar escalado")
}

func TestAggregate_DescuentoNuncaDejaTotalNegativo(t *testing.T) {
	for _, disc := range []string{"0", "999", "1000", "1001", "1000000"} {
		items := []entity.QuoteLineItem{line(entity.FrequencyOneTime, "1", "1000", "0", 1)}
		tot := pricing.Aggregate(items, entity.Adjustment{Value: d(disc), Kind: entity.AmountFixed}, d("10"))
		assert.False(t, tot.TotalAmount.IsNegative(), "descuento %s", disc)
		assert.False(t, tot.CommissionAmount.IsNegative(), "descuento %s", disc)
	}
}

func TestAggregate_SinLineasRatioUno(t *testing.T) {
	tot := pricing.Aggregate(nil, entity.Adjustment{Value: d("50"), Kind: entity.AmountFixed}, d("10"))
	assertDec(t, "0", tot.Subtotal, "subtotal")
	assertDec(t, "0", tot.TotalAmount, "clamp a 0")
	assertDec(t, "1", tot.DiscountRatio, "subtotal 0 -> ratio 1")
}

func TestAggregate_Idempotente(t *testing.T) {
	items := []entity.QuoteLineItem{
		line(entity.FrequencyOneTime, "3", "33.33", "10", 1),
		line(entity.FrequencyQuarterly, "2", "45.5", "12.25", 7),
	}
	disc := entity.Adjustment{Value: d("7.5"), Kind: entity.AmountPercentage}

	a := pricing.Aggregate(items, disc, d("12.5"))
	b := pricing.Aggregate(items, disc, d("12.5"))
	assert.Equal(t, a, b)
}

func TestApplyTotals_NoMutaLaEntrada(t *testing.T) {
	q := entity.Quote{
		ID:    "q1",
		Items: []entity.QuoteLineItem{line(entity.FrequencyOneTime, "1", "100", "20", 1)},
	}
	out := pricing.ApplyTotals(q, d("10"))

	assert.True(t, q.TotalAmount.IsZero(), "la original no cambia")
	assertDec(t, "100", out.TotalAmount, "copia con derivados")
	assertDec(t, "70", out.NetProfit, "100 - 20 - 10")

	out.Items[0].Quantity = d("5")
	assertDec(t, "1", q.Items[0].Quantity, "las líneas no se comparten")

	again := pricing.ApplyTotals(out, d("10"))
	assertDec(t, "500", again.TotalAmount, "recalcula tras mutar líneas")
}

func TestCommissionRateFor_UsaTasaPlana(t *testing.T) {
	sp := &entity.Salesperson{
		CommissionRate: d("8"),
		TieredRates:    []entity.CommissionTier{{Threshold: d("0"), Rate: d("20")}},
	}
	assertDec(t, "8", pricing.CommissionRateFor(sp), "los tramos no se evalúan")
	assertDec(t, "0", pricing.CommissionRateFor(nil), "sin vendedor")
}

func TestMarginPercent(t *testing.T) {
	assertDec(t, "25", pricing.MarginPercent(d("25"), d("100")), "margen")
	assertDec(t, "0", pricing.MarginPercent(d("25"), decimal.Zero), "total 0")
	require.NotPanics(t, func() { pricing.MarginPercent(decimal.Zero, decimal.Zero) })
}
