// Package pricing deriva las cifras de una cotización a partir de sus líneas.
// Todas las funciones son puras: reciben valores y devuelven valores nuevos.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// LineFigures cifras derivadas de una línea.
type LineFigures struct {
	GrossValue   decimal.Decimal // valor total del contrato de la línea
	COGS         decimal.Decimal
	DueAtSigning decimal.Decimal // bruto, antes de aplicar el descuento de la cotización
	Recurring    decimal.Decimal // cuota periódica bruta; cero en one_time
}

// ContractMonths meses que multiplican la línea: 1 en one_time, mínimo 1 en recurrentes.
func ContractMonths(item entity.QuoteLineItem) int64 {
	if !item.BillingFrequency.IsRecurring() || item.ContractMonths < 1 {
		return 1
	}
	return int64(item.ContractMonths)
}

// CalculateLine deriva valor bruto, COGS y el reparto de flujo de caja de una línea.
func CalculateLine(item entity.QuoteLineItem) LineFigures {
	months := decimal.NewFromInt(ContractMonths(item))
	unitValue := item.Quantity.Mul(item.UnitPrice)

	f := LineFigures{
		GrossValue: unitValue.Mul(months),
		COGS:       item.Quantity.Mul(item.UnitCost).Mul(months),
	}
	if !item.BillingFrequency.IsRecurring() {
		f.DueAtSigning = unitValue
		f.Recurring = decimal.Zero
		return f
	}

	installment := unitValue.Mul(decimal.NewFromInt(item.BillingFrequency.InstallmentMonths()))
	f.DueAtSigning = DownPayment(item).Add(installment)
	f.Recurring = installment
	return f
}

// DownPayment anticipo de una línea recurrente: monto fijo o porcentaje de qty*unitPrice.
func DownPayment(item entity.QuoteLineItem) decimal.Decimal {
	if !item.BillingFrequency.IsRecurring() {
		return decimal.Zero
	}
	if item.DownPayment.Kind == entity.AmountPercentage {
		return item.Quantity.Mul(item.UnitPrice).Mul(item.DownPayment.Value).Div(hundred)
	}
	return item.DownPayment.Value
}

// LineROI margen unitario en porcentaje, solo para mostrar. 0 si el precio es 0.
func LineROI(item entity.QuoteLineItem) decimal.Decimal {
	if item.UnitPrice.IsZero() {
		return decimal.Zero
	}
	return item.UnitPrice.Sub(item.UnitCost).Div(item.UnitPrice).Mul(hundred)
}
