package validation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// Client valida el formulario de cliente.
func Client(c entity.Client) FieldErrors {
	f := FieldErrors{}
	f.Required("name", c.Name)
	f.MaxLen("name", c.Name, 200)
	f.Email("email", c.Email)
	f.Phone("phone", c.Phone)
	f.TaxID("tax_id", c.TaxID)
	return f
}

// Lead valida el formulario de lead. Exige al menos un medio de contacto.
func Lead(l entity.Lead) FieldErrors {
	f := FieldErrors{}
	f.Required("name", l.Name)
	f.MaxLen("name", l.Name, 200)
	f.Email("email", l.Email)
	f.Phone("phone", l.Phone)
	if l.Email == "" && l.Phone == "" {
		f.Add("email", "indique email o teléfono")
	}
	if l.Visits < 0 {
		f.Add("visits", "no puede ser negativo")
	}
	return f
}

// Salesperson valida el formulario de vendedor.
func Salesperson(s entity.Salesperson) FieldErrors {
	f := FieldErrors{}
	f.Required("name", s.Name)
	f.Required("email", s.Email)
	f.Email("email", s.Email)
	f.Phone("phone", s.Phone)
	percent("commission_rate", s.CommissionRate, f)
	for _, t := range s.TieredRates {
		if t.Threshold.IsNegative() {
			f.Add("tiered_rates", "umbral negativo")
		}
		percent("tiered_rates", t.Rate, f)
	}
	if s.MonthlyVisitTarget < 0 {
		f.Add("monthly_visit_target", "no puede ser negativo")
	}
	return f
}

// CatalogItem valida un servicio del catálogo.
func CatalogItem(s entity.ServiceCatalogItem) FieldErrors {
	f := FieldErrors{}
	f.Required("name", s.Name)
	nonNegative("unit_sale_price", s.UnitSalePrice, f)
	nonNegative("unit_material_cost", s.UnitMaterialCost, f)
	nonNegative("unit_process_cost", s.UnitProcessCost, f)
	switch s.BillingKind {
	case entity.BillingKindOneTime, entity.BillingKindRecurring:
	default:
		f.Add("billing_kind", "debe ser one_time o recurring")
	}
	if s.MinimumContractMonths < 0 {
		f.Add("minimum_contract_months", "no puede ser negativo")
	}
	return f
}

// Expense valida un gasto operativo y su descriptor recurrente.
func Expense(e entity.OperationalExpense) FieldErrors {
	f := FieldErrors{}
	f.Required("category", e.Category)
	nonNegative("amount", e.Amount, f)
	if e.Date.IsZero() {
		f.Add("date", "es obligatorio")
	}
	if e.Recurring {
		switch {
		case e.Schedule == nil:
			f.Add("frequency", "es obligatorio en gastos recurrentes")
		case !e.Schedule.Frequency.ValidForExpense():
			f.Add("frequency", "frecuencia no admitida")
		case e.Schedule.RemainingCycles != nil && *e.Schedule.RemainingCycles < 0:
			f.Add("remaining_cycles", "no puede ser negativo")
		}
	}
	return f
}

// QuoteItems valida las líneas y el descuento de una cotización.
func QuoteItems(items []entity.QuoteLineItem, discount entity.Adjustment) FieldErrors {
	f := FieldErrors{}
	if len(items) == 0 {
		f.Add("items", "la cotización debe tener al menos una línea")
	}
	for _, it := range items {
		if !it.Quantity.IsPositive() {
			f.Add("items.quantity", "debe ser mayor que cero")
		}
		if it.UnitPrice.IsNegative() {
			f.Add("items.unit_price", "no puede ser negativo")
		}
		if it.UnitCost.IsNegative() {
			f.Add("items.unit_cost", "no puede ser negativo")
		}
		if !it.BillingFrequency.ValidForLine() {
			f.Add("items.billing_frequency", "frecuencia no admitida")
		}
		if it.BillingFrequency.IsRecurring() && it.ContractMonths < 1 {
			f.Add("items.contract_months", "debe ser al menos 1")
		}
		adjustment("items.down_payment", it.DownPayment, f)
	}
	adjustment("discount", discount, f)
	return f
}

func adjustment(field string, a entity.Adjustment, f FieldErrors) {
	switch a.Kind {
	case entity.AmountFixed, "":
		nonNegative(field, a.Value, f)
	case entity.AmountPercentage:
		percent(field, a.Value, f)
	default:
		f.Add(field, "tipo debe ser fixed o percentage")
	}
}

func nonNegative(field string, v decimal.Decimal, f FieldErrors) {
	if v.IsNegative() {
		f.Add(field, "no puede ser negativo")
	}
}

var hundred = decimal.NewFromInt(100)

func percent(field string, v decimal.Decimal, f FieldErrors) {
	if v.IsNegative() || v.GreaterThan(hundred) {
		f.Add(field, "debe estar entre 0 y 100")
	}
}
