package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// Totals cifras derivadas de una cotización completa.
type Totals struct {
	Subtotal              decimal.Decimal
	TotalCOGS             decimal.Decimal
	DiscountAmount        decimal.Decimal
	TotalAmount           decimal.Decimal
	DiscountRatio         decimal.Decimal
	AppliedCommissionRate decimal.Decimal
	CommissionAmount      decimal.Decimal
	NetProfit             decimal.Decimal
	DueAtSigning          decimal.Decimal
	RecurringAmount       decimal.Decimal
}

// Aggregate suma las líneas, aplica el descuento y la comisión.
//
// La comisión se calcula sobre el total neto (después del descuento), no sobre el subtotal.
// Las cifras de flujo de caja (al firmar, recurrente) se escalan con DiscountRatio.
func Aggregate(items []entity.QuoteLineItem, discount entity.Adjustment, commissionRate decimal.Decimal) Totals {
	t := Totals{AppliedCommissionRate: commissionRate}
	grossDue, grossRecurring := decimal.Zero, decimal.Zero
	for _, it := range items {
		f := CalculateLine(it)
		t.Subtotal = t.Subtotal.Add(f.GrossValue)
		t.TotalCOGS = t.TotalCOGS.Add(f.COGS)
		grossDue = grossDue.Add(f.DueAtSigning)
		grossRecurring = grossRecurring.Add(f.Recurring)
	}

	t.DiscountAmount = DiscountAmount(t.Subtotal, discount)
	t.TotalAmount = decimal.Max(decimal.Zero, t.Subtotal.Sub(t.DiscountAmount))
	t.DiscountRatio = DiscountRatio(t.Subtotal, t.TotalAmount)

	t.CommissionAmount = Commission(t.TotalAmount, commissionRate)
	t.NetProfit = t.TotalAmount.Sub(t.TotalCOGS).Sub(t.CommissionAmount)
	t.DueAtSigning = grossDue.Mul(t.DiscountRatio)
	t.RecurringAmount = grossRecurring.Mul(t.DiscountRatio)
	return t
}

// DiscountAmount monto del descuento: porcentaje del subtotal o monto fijo.
func DiscountAmount(subtotal decimal.Decimal, discount entity.Adjustment) decimal.Decimal {
	if discount.Kind == entity.AmountPercentage {
		return subtotal.Mul(discount.Value).Div(hundred)
	}
	return discount.Value
}

// DiscountRatio total/subtotal; 1 cuando el subtotal es 0 (sin escalar).
func DiscountRatio(subtotal, total decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return total.Div(subtotal)
}

// Commission base * rate / 100.
func Commission(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(hundred)
}

// CommissionRateFor tasa aplicada a las cotizaciones del vendedor.
// Los tramos escalonados existen en el modelo pero no se evalúan: siempre gana la tasa plana.
func CommissionRateFor(sp *entity.Salesperson) decimal.Decimal {
	if sp == nil {
		return decimal.Zero
	}
	return sp.CommissionRate
}

// ApplyTotals devuelve una copia de q con los campos derivados recalculados.
func ApplyTotals(q entity.Quote, commissionRate decimal.Decimal) entity.Quote {
	out := q.Clone()
	t := Aggregate(out.Items, out.Discount, commissionRate)
	out.Subtotal = t.Subtotal
	out.TotalCOGS = t.TotalCOGS
	out.TotalAmount = t.TotalAmount
	out.AppliedCommissionRate = t.AppliedCommissionRate
	out.CommissionAmount = t.CommissionAmount
	out.NetProfit = t.NetProfit
	out.DueAtSigning = t.DueAtSigning
	out.RecurringAmount = t.RecurringAmount
	return out
}

// MarginPercent margen neto sobre el total en porcentaje; 0 si el total es 0.
func MarginPercent(netProfit, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return netProfit.Div(total).Mul(hundred)
}
