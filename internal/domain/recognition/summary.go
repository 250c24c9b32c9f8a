package recognition

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotiza-api/internal/domain/currency"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// Snapshot colecciones inmutables sobre las que se calculan los resúmenes.
type Snapshot struct {
	Quotes       []entity.Quote
	Invoices     []entity.Invoice
	Expenses     []entity.OperationalExpense
	BaseCurrency string
	Rates        currency.RateTable
}

// Summary cifras de un período (o acumuladas), en moneda base.
type Summary struct {
	Month               Month
	Revenue             decimal.Decimal
	COGS                decimal.Decimal
	Commission          decimal.Decimal
	OperationalExpenses decimal.Decimal
	NetProfit           decimal.Decimal
}

func (s *Summary) close() {
	s.NetProfit = s.Revenue.Sub(s.COGS.Add(s.Commission).Add(s.OperationalExpenses))
}

// MonthSummary ingreso por caja del mes menos costos devengados y gastos del mes.
func MonthSummary(m Month, snap Snapshot, now time.Time) Summary {
	s := Summary{Month: m}
	for _, inv := range snap.Invoices {
		if m.Contains(inv.Date) {
			s.Revenue = s.Revenue.Add(snap.normalize(inv.TotalAmount, inv.Currency, inv.ExchangeRate))
		}
	}
	target := m
	for _, q := range snap.Quotes {
		c := RecognizedCost(q, &target, now)
		s.COGS = s.COGS.Add(snap.normalize(c.COGS, q.Currency, q.ExchangeRate))
		s.Commission = s.Commission.Add(snap.normalize(c.Commission, q.Currency, q.ExchangeRate))
	}
	for _, e := range snap.Expenses {
		if m.Contains(e.Date) {
			s.OperationalExpenses = s.OperationalExpenses.Add(snap.normalize(e.Amount, e.Currency, e.ExchangeRate))
		}
	}
	s.close()
	return s
}

// RollingChart n meses terminando en end (incluido), del más antiguo al más reciente.
func RollingChart(end Month, n int, snap Snapshot, now time.Time) []Summary {
	if n <= 0 {
		return nil
	}
	out := make([]Summary, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, MonthSummary(end.AddMonths(-i), snap, now))
	}
	return out
}

// ToDate totales realizados hasta now: facturas y gastos fechados hasta now, costo reconocido acumulado.
func ToDate(snap Snapshot, now time.Time) Summary {
	s := Summary{Month: MonthOf(now)}
	for _, inv := range snap.Invoices {
		if !inv.Date.After(now) {
			s.Revenue = s.Revenue.Add(snap.normalize(inv.TotalAmount, inv.Currency, inv.ExchangeRate))
		}
	}
	for _, q := range snap.Quotes {
		c := RecognizedCost(q, nil, now)
		s.COGS = s.COGS.Add(snap.normalize(c.COGS, q.Currency, q.ExchangeRate))
		s.Commission = s.Commission.Add(snap.normalize(c.Commission, q.Currency, q.ExchangeRate))
	}
	for _, e := range snap.Expenses {
		if !e.Date.After(now) {
			s.OperationalExpenses = s.OperationalExpenses.Add(snap.normalize(e.Amount, e.Currency, e.ExchangeRate))
		}
	}
	s.close()
	return s
}

func (snap Snapshot) normalize(amount decimal.Decimal, from string, captured decimal.Decimal) decimal.Decimal {
	return currency.NormalizeCaptured(amount, from, snap.BaseCurrency, snap.Rates, captured)
}
