package recognition_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotiza-api/internal/domain/currency"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/pricing"
	"github.com/jhoicas/Cotiza-api/internal/domain/recognition"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: want %s got %s", msg, want, got)
}

var origin = time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)

func approvedQuote(rate string, items ...entity.QuoteLineItem) entity.Quote {
	q := entity.Quote{
		ID:           "q1",
		Version:      1,
		Date:         origin,
		Status:       entity.QuoteStatusApproved,
		Items:        items,
		Discount:     entity.Adjustment{Kind: entity.AmountFixed},
		Currency:     "USD",
		ExchangeRate: d("1"),
	}
	return pricing.ApplyTotals(q, d(rate))
}

func recurringLine(cost string, months int) entity.QuoteLineItem {
	return entity.QuoteLineItem{
		Quantity:         d("1"),
		UnitPrice:        d("50"),
		UnitCost:         d(cost),
		BillingFrequency: entity.FrequencyMonthly,
		ContractMonths:   months,
	}
}

func monthPtr(m recognition.Month) *recognition.Month { return &m }

func TestMonthsElapsed(t *testing.T) {
	jan := recognition.Month{Year: 2026, Month: time.January}
	assert.Equal(t, 0, recognition.MonthsElapsed(jan, jan))
	assert.Equal(t, 11, recognition.MonthsElapsed(recognition.Month{Year: 2026, Month: time.December}, jan))
	assert.Equal(t, 13, recognition.MonthsElapsed(recognition.Month{Year: 2027, Month: time.February}, jan))
	assert.Equal(t, -1, recognition.MonthsElapsed(recognition.Month{Year: 2025, Month: time.December}, jan))
	assert.Equal(t, recognition.Month{Year: 2025, Month: time.November}, jan.AddMonths(-2))
}

// La suma mes a mes de una línea recurrente reproduce el COGS total sin doble conteo.
func TestRecognizedCost_AmortizacionSumaElTotal(t *testing.T) {
	// unitCost 10 x 12 meses = COGS 120
	q := approvedQuote("0", recurringLine("10", 12))
	start := recognition.MonthOf(origin)

	sum := decimal.Zero
	for i := 0; i < 12; i++ {
		c := recognition.RecognizedCost(q, monthPtr(start.AddMonths(i)), origin)
		assertDec(t, "10", c.COGS, "cuota mensual")
		sum = sum.Add(c.COGS)
	}
	assertDec(t, "120", sum, "suma de 12 meses")

	before := recognition.RecognizedCost(q, monthPtr(start.AddMonths(-1)), origin)
	after := recognition.RecognizedCost(q, monthPtr(start.AddMonths(12)), origin)
	assertDec(t, "0", before.COGS, "antes del inicio")
	assertDec(t, "0", after.COGS, "después del contrato")

	for _, extra := range []int{11, 12, 30} {
		now := origin.AddDate(0, extra, 0)
		assertDec(t, "120", recognition.RecognizedCost(q, nil, now).COGS, "a la fecha, acotado a N")
	}
}

func TestRecognizedCost_ALaFechaParcial(t *testing.T) {
	q := approvedQuote("10", recurringLine("10", 12))

	c := recognition.RecognizedCost(q, nil, origin.AddDate(0, 2, 0))
	assertDec(t, "30", c.COGS, "3 ciclos: enero, febrero, marzo")
	// comisión de la línea = 600 * 10% = 60 -> 5 por mes
	assertDec(t, "15", c.Commission, "3 ciclos de comisión")

	future := recognition.RecognizedCost(q, nil, origin.AddDate(0, -1, 0))
	assertDec(t, "0", future.COGS, "now anterior al inicio")
}

func TestRecognizedCost_OneTimeEnMesDeOrigen(t *testing.T) {
	item := entity.QuoteLineItem{
		Quantity: d("2"), UnitPrice: d("100"), UnitCost: d("30"),
		BillingFrequency: entity.FrequencyOneTime,
	}
	q := approvedQuote("10", item)
	start := recognition.MonthOf(origin)

	c := recognition.RecognizedCost(q, monthPtr(start), origin)
	assertDec(t, "60", c.COGS, "todo en el mes de origen")
	assertDec(t, "20", c.Commission, "200 * 10%")

	assertDec(t, "0", recognition.RecognizedCost(q, monthPtr(start.AddMonths(1)), origin).COGS, "otro mes")

	toDate := recognition.RecognizedCost(q, nil, origin.AddDate(0, -3, 0))
	assertDec(t, "60", toDate.COGS, "a la fecha se reconoce completo sin condición")
}

func TestRecognizedCost_ComisionPorLineaSobreNeto(t *testing.T) {
	item := entity.QuoteLineItem{
		Quantity: d("10"), UnitPrice: d("100"), UnitCost: d("0"),
		BillingFrequency: entity.FrequencyOneTime,
	}
	q := entity.Quote{
		Date: origin, Status: entity.QuoteStatusApproved,
		Items:    []entity.QuoteLineItem{item},
		Discount: entity.Adjustment{Value: d("100"), Kind: entity.AmountFixed},
	}
	q = pricing.ApplyTotals(q, d("5"))

	c := recognition.RecognizedCost(q, nil, origin)
	assertDec(t, "45", c.Commission, "900 * 5%")
	assert.True(t, q.CommissionAmount.Equal(c.Commission), "coincide con la comisión de la cotización")
}

func TestRecognizedCost_SoloAprobadas(t *testing.T) {
	for _, st := range []string{entity.QuoteStatusDraft, entity.QuoteStatusSent, entity.QuoteStatusRejected} {
		q := approvedQuote("10", recurringLine("10", 12))
		q.Status = st
		c := recognition.RecognizedCost(q, nil, origin.AddDate(1, 0, 0))
		assert.True(t, c.Total().IsZero(), st)
	}
}

func TestMonthSummary_IngresoPorCajaCostoDevengado(t *testing.T) {
	q := approvedQuote("10", recurringLine("10", 12)) // 10 cogs + 5 comisión por mes
	snap := recognition.Snapshot{
		Quotes: []entity.Quote{q},
		Invoices: []entity.Invoice{
			{TotalAmount: d("600"), Currency: "USD", ExchangeRate: d("1"), Date: origin},
			{TotalAmount: d("100"), Currency: "EUR", ExchangeRate: d("0.5"), Date: origin.AddDate(0, 1, 0)},
		},
		Expenses: []entity.OperationalExpense{
			{Amount: d("40"), Currency: "USD", ExchangeRate: d("1"), Date: origin},
		},
		BaseCurrency: "USD",
		Rates:        currency.RateTable{"USD": d("1"), "EUR": d("0.9")},
	}

	jan := recognition.MonthSummary(recognition.MonthOf(origin), snap, origin)
	assertDec(t, "600", jan.Revenue, "ingreso de enero")
	assertDec(t, "10", jan.COGS, "cogs devengado")
	assertDec(t, "5", jan.Commission, "comisión devengada")
	assertDec(t, "40", jan.OperationalExpenses, "gasto")
	assertDec(t, "545", jan.NetProfit, "600 - (10+5+40)")

	feb := recognition.MonthSummary(recognition.MonthOf(origin).AddMonths(1), snap, origin)
	assertDec(t, "200", feb.Revenue, "100 EUR con tasa capturada 0.5")
	assertDec(t, "185", feb.NetProfit, "200 - 15")
}

func TestRollingChart_SeisMesesOrdenados(t *testing.T) {
	end := recognition.Month{Year: 2026, Month: time.March}
	chart := recognition.RollingChart(end, 6, recognition.Snapshot{BaseCurrency: "USD"}, origin)
	require.Len(t, chart, 6)
	assert.Equal(t, recognition.Month{Year: 2025, Month: time.October}, chart[0].Month)
	assert.Equal(t, end, chart[5].Month)
	assert.Empty(t, recognition.RollingChart(end, 0, recognition.Snapshot{}, origin))
}

// El gráfico y el acumulado usan la misma función: sumar el gráfico que cubre todo el
// contrato da el mismo costo que el acumulado al final del contrato.
func TestToDate_CoincideConSumaDelGrafico(t *testing.T) {
	q := approvedQuote("10", recurringLine("7", 6))
	snap := recognition.Snapshot{Quotes: []entity.Quote{q}, BaseCurrency: "USD"}
	end := recognition.MonthOf(origin).AddMonths(5)
	now := origin.AddDate(0, 5, 0)

	chartCost := decimal.Zero
	for _, m := range recognition.RollingChart(end, 6, snap, now) {
		chartCost = chartCost.Add(m.COGS).Add(m.Commission)
	}
	td := recognition.ToDate(snap, now)
	assert.True(t, chartCost.Equal(td.COGS.Add(td.Commission)), "chart %s todate %s", chartCost, td.COGS.Add(td.Commission))
}

func TestToDate_ExcluyeDocumentosFuturos(t *testing.T) {
	snap := recognition.Snapshot{
		Invoices: []entity.Invoice{
			{TotalAmount: d("100"), Date: origin},
			{TotalAmount: d("999"), Date: origin.AddDate(0, 0, 1)},
		},
		Expenses: []entity.OperationalExpense{
			{Amount: d("30"), Date: origin.AddDate(0, 0, -1)},
			{Amount: d("70"), Date: origin.AddDate(0, 1, 0)},
		},
		BaseCurrency: "USD",
	}
	td := recognition.ToDate(snap, origin)
	assertDec(t, "100", td.Revenue, "ingreso")
	assertDec(t, "30", td.OperationalExpenses, "gastos")
	assertDec(t, "70", td.NetProfit, "neto")
}
