// Package recognition reparte el costo de las cotizaciones aprobadas entre meses calendario
// y arma los resúmenes financieros por período.
//
// Asimetría intencional: el ingreso se reconoce por caja (facturas fechadas en el período)
// mientras que el costo (COGS + comisión) se devenga mes a mes según el contrato de cada línea.
// Es una decisión de reporte del negocio; no convertir a devengo completo sin aprobación de producto.
package recognition

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/pricing"
)

// Cost costo reconocido.
type Cost struct {
	COGS       decimal.Decimal
	Commission decimal.Decimal
}

// Total COGS + comisión.
func (c Cost) Total() decimal.Decimal {
	return c.COGS.Add(c.Commission)
}

// Add suma dos costos.
func (c Cost) Add(o Cost) Cost {
	return Cost{COGS: c.COGS.Add(o.COGS), Commission: c.Commission.Add(o.Commission)}
}

// RecognizedCost porción del COGS y de la comisión de q reconocida en target.
// target nil = acumulado a la fecha now.
//
// Es la única implementación: el gráfico mensual y los totales a la fecha la comparten.
func RecognizedCost(q entity.Quote, target *Month, now time.Time) Cost {
	out := Cost{COGS: decimal.Zero, Commission: decimal.Zero}
	if q.Status != entity.QuoteStatusApproved {
		return out
	}

	totals := pricing.Aggregate(q.Items, q.Discount, q.AppliedCommissionRate)
	start := MonthOf(q.Date)

	for _, it := range q.Items {
		f := pricing.CalculateLine(it)
		lineComm := pricing.Commission(f.GrossValue.Mul(totals.DiscountRatio), totals.AppliedCommissionRate)
		line := Cost{COGS: f.COGS, Commission: lineComm}

		if !it.BillingFrequency.IsRecurring() {
			if target == nil || *target == start {
				out = out.Add(line)
			}
			continue
		}

		n := int(pricing.ContractMonths(it))
		if target != nil {
			e := MonthsElapsed(*target, start)
			if e >= 0 && e < n {
				out = out.Add(monthlyShare(line, n, 1))
			}
			continue
		}

		cycles := MonthsElapsed(MonthOf(now), start) + 1
		switch {
		case cycles <= 0:
		case cycles >= n:
			out = out.Add(line)
		default:
			out = out.Add(monthlyShare(line, n, cycles))
		}
	}
	return out
}

func monthlyShare(line Cost, n, cycles int) Cost {
	div := decimal.NewFromInt(int64(n))
	mul := decimal.NewFromInt(int64(cycles))
	return Cost{
		COGS:       line.COGS.Div(div).Mul(mul),
		Commission: line.Commission.Div(div).Mul(mul),
	}
}
